package switcher

import "github.com/benaskins/ccswitch/internal/apperr"

// Sentinels returned by engine operations. Wrapped errors keep the kind, so
// callers can use errors.Is for the sentinel or apperr.KindOf for the class.
var (
	ErrNoIdentity      = apperr.New(apperr.KindNotFound, "add", "no active Claude account found; log in to Claude Code first")
	ErrEmptyToken      = apperr.New(apperr.KindNotFound, "add", "no token provided")
	ErrNoAccounts      = apperr.New(apperr.KindNotFound, "ledger", "no accounts managed yet; run `ccswitch add` first")
	ErrUnknownAccount  = apperr.New(apperr.KindNotFound, "resolve", "no account found")
	ErrNoActiveAccount = apperr.New(apperr.KindNotFound, "switch", "no active account; run `ccswitch add` first")
	ErrMissingBackup   = apperr.New(apperr.KindNotFound, "switch", "missing backup")
	ErrInvalidConfig   = apperr.New(apperr.KindInvalidState, "switch", "config backup has no oauthAccount")
	ErrTooFewAccounts  = apperr.New(apperr.KindNotFound, "rotate", "only one account managed; add another with `ccswitch add`")
)
