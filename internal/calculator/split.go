package calculator

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cheq/internal/models"
)

var (
	// ErrTooFewWays is returned when a split asks for fewer than two pieces.
	ErrTooFewWays = errors.New("calculator: split requires at least 2 ways")
	// ErrSplitClaimed is returned when a split targets an already-claimed
	// item. Allowing it would silently discard the claim.
	ErrSplitClaimed = errors.New("calculator: cannot split a claimed item")
)

// Split divides an item into ways equal-priced replacement pieces. Each
// piece gets a fresh identity, an unclaimed state, and the name
// "1/<ways> <original name>". The caller is responsible for swapping the
// pieces into the item list at the original's position.
//
// Piece prices are decimal divisions of the original; for divisors like 3
// the re-summed pieces can differ from the original in the far tail of the
// precision, well below anything the two-decimal display can observe.
func Split(item models.Item, ways int) ([]models.Item, error) {
	if ways < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrTooFewWays, ways)
	}
	if item.Claimed() {
		return nil, fmt.Errorf("%w: %q is claimed by %s", ErrSplitClaimed, item.Name, item.ClaimedBy)
	}

	share := item.Price.Div(decimal.NewFromInt(int64(ways)))
	pieces := make([]models.Item, ways)
	for i := range pieces {
		pieces[i] = models.Item{
			ID:     uuid.New().String(),
			BillID: item.BillID,
			Name:   fmt.Sprintf("1/%d %s", ways, item.Name),
			Price:  share,
		}
	}
	return pieces, nil
}
