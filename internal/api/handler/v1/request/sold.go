package request

import (
	"github.com/storefront/merchant-admin/internal/service"
)

// DateRangeQuery binds the optional ?from=&to= filter of the sold views.
type DateRangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

func (q DateRangeQuery) Range() (service.DateRange, error) {
	return service.ParseDateRange(q.From, q.To)
}
