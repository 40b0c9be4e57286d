// Package vault implements the mock vault's orchestration layer
// (spec.md C5): for each request it validates the destination Authority,
// charges the target account where the request mutates state, executes
// the underlying store operation, and packages the outcome. Grounded on
// cuemby/warren's pkg/manager.Manager: one struct holding every backing
// store plus logging/metrics handles, with one method per request kind,
// rather than the FSM's string-keyed Apply dispatch (reused instead in
// pkg/router, where a genuinely closed request enum belongs).
package vault

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/safevault/mockvault/pkg/account"
	"github.com/safevault/mockvault/pkg/config"
	"github.com/safevault/mockvault/pkg/identity"
	"github.com/safevault/mockvault/pkg/idata"
	"github.com/safevault/mockvault/pkg/mdata"
	"github.com/safevault/mockvault/pkg/vaulterrors"
	"github.com/safevault/mockvault/pkg/vaultlog"
	"github.com/safevault/mockvault/pkg/vaultmetrics"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

// Vault is the sole caller of the account/idata/mdata stores. It holds no
// exported state; every operation is invoked through its methods, each
// taking the request's destination Authority as the first argument so
// the Vault can validate it before touching any store (spec.md §4.4).
type Vault struct {
	accounts *account.Store
	idata    *idata.Store
	mdata    *mdata.Store
	cfg      config.Config
	log      zerolog.Logger
}

// New creates a Vault configured with cfg (or config.Default() if cfg is
// the zero value's DefaultMaxMutations is 0).
func New(cfg config.Config) *Vault {
	if cfg.DefaultMaxMutations == 0 {
		cfg = config.Default()
	}
	return &Vault{
		accounts: account.New(cfg.DefaultMaxMutations),
		idata:    idata.New(),
		mdata:    mdata.New(),
		cfg:      cfg,
		log:      vaultlog.WithComponent("vault"),
	}
}

// observe records the outcome of op (by result code) and its latency,
// mirroring cuemby/warren's pkg/metrics APIRequestsTotal/APIRequestDuration
// pair, and logs the result (success or failure) at debug level.
func (v *Vault) observe(op string, start time.Time, err error) {
	code := "OK"
	if err != nil {
		if c, ok := vaulterrors.CodeOf(err); ok {
			code = c.String()
			if c == vaulterrors.LowBalance {
				vaultmetrics.QuotaExhaustions.Inc()
			}
		} else {
			code = "Error"
		}
	}
	vaultmetrics.RequestsTotal.WithLabelValues(op, code).Inc()
	vaultmetrics.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	elapsed := time.Since(start)
	if err != nil {
		v.log.Debug().Str("op", op).Str("code", code).Dur("elapsed", elapsed).Msg("request failed")
		return
	}
	v.log.Debug().Str("op", op).Dur("elapsed", elapsed).Msg("request ok")
}

// checkAuthority fails InvalidOperation if dst isn't of kind want.
func checkAuthority(dst vaulttypes.Authority, want vaulttypes.AuthorityKind, op string) error {
	if dst.Kind != want {
		return vaulterrors.New(vaulterrors.InvalidOperation, op)
	}
	return nil
}

// chargeOrCreate implements the Vault's account-creation special case
// (spec.md §4.4): a PutMData whose payload carries the session-packet
// type tag and whose name equals the target ClientManager's name creates
// the account (if absent) instead of charging it. Every other mutating
// request against ClientManager(name) charges the existing account.
func (v *Vault) chargeOrCreate(dst vaulttypes.Authority, isSessionPacketCreate bool, ownerKey identity.PublicKey) error {
	if isSessionPacketCreate && !v.accounts.Exists(dst.Name) {
		if err := v.accounts.Create(dst.Name, ownerKey); err != nil {
			return err
		}
		vaultmetrics.AccountsCreated.Inc()
		return nil
	}
	if err := v.accounts.Charge(dst.Name); err != nil {
		return err
	}
	vaultmetrics.MutationsCharged.Inc()
	return nil
}
