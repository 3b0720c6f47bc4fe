package account

import (
	"errors"

	"github.com/mwyrick/paperdesk/ledger"
)

// The four error kinds every facade operation can surface. Funds and
// quantity errors originate in the ledger; the aliases keep errors.Is
// checks uniform for callers of this package.
var (
	ErrInsufficientFunds  = ledger.ErrInsufficientFunds
	ErrInvalidQuantity    = ledger.ErrInvalidQuantity
	ErrInsufficientMargin = errors.New("insufficient margin")
	ErrInvalidState       = errors.New("invalid state")
)
