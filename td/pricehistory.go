package td

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
)

// Period types accepted by the price-history endpoint.
const (
	PeriodTypeDay   = "day"
	PeriodTypeMonth = "month"
	PeriodTypeYear  = "year"
	PeriodTypeYTD   = "ytd"
)

// Frequency types accepted by the price-history endpoint.
const (
	FrequencyTypeMinute  = "minute"
	FrequencyTypeDaily   = "daily"
	FrequencyTypeWeekly  = "weekly"
	FrequencyTypeMonthly = "monthly"
)

// PriceHistoryParams selects the candle range and granularity. Period is
// mutually exclusive with an explicit StartDate/EndDate pair; zero Period
// and Frequency mean "not supplied" and are omitted from the request.
// StartDate and EndDate are epoch milliseconds.
type PriceHistoryParams struct {
	PeriodType            string
	Period                int
	FrequencyType         string
	Frequency             int
	StartDate             int64
	EndDate               int64
	NeedExtendedHoursData bool
}

// periodsByType and frequencyTypesByPeriodType encode the broker's
// documented valid combinations.
var (
	periodsByType = map[string][]int{
		PeriodTypeDay:   {1, 2, 3, 4, 5, 10},
		PeriodTypeMonth: {1, 2, 3, 6},
		PeriodTypeYear:  {1, 2, 3, 5, 10, 15, 20},
		PeriodTypeYTD:   {1},
	}
	frequencyTypesByPeriodType = map[string][]string{
		PeriodTypeDay:   {FrequencyTypeMinute},
		PeriodTypeMonth: {FrequencyTypeDaily, FrequencyTypeWeekly},
		PeriodTypeYear:  {FrequencyTypeDaily, FrequencyTypeWeekly, FrequencyTypeMonthly},
		PeriodTypeYTD:   {FrequencyTypeDaily, FrequencyTypeWeekly},
	}
	minuteFrequencies = []int{1, 5, 10, 15, 30}
)

// Validate checks the parameter combination and reports the first
// violated rule.
func (p PriceHistoryParams) Validate() error {
	if p.Period != 0 && (p.StartDate != 0 || p.EndDate != 0) {
		return fmt.Errorf("%w: period is mutually exclusive with startDate/endDate", ErrInvalidParams)
	}

	validPeriods, ok := periodsByType[p.PeriodType]
	if !ok {
		return fmt.Errorf("%w: unknown periodType %q", ErrInvalidParams, p.PeriodType)
	}
	validFrequencyTypes := frequencyTypesByPeriodType[p.PeriodType]
	if !slices.Contains(validFrequencyTypes, p.FrequencyType) {
		return fmt.Errorf("%w: frequencyType %q not valid for periodType %q (want one of %v)",
			ErrInvalidParams, p.FrequencyType, p.PeriodType, validFrequencyTypes)
	}
	if p.Period != 0 && !slices.Contains(validPeriods, p.Period) {
		return fmt.Errorf("%w: period %d not valid for periodType %q (want one of %v)",
			ErrInvalidParams, p.Period, p.PeriodType, validPeriods)
	}

	if p.Frequency != 0 {
		if p.FrequencyType == FrequencyTypeMinute {
			if !slices.Contains(minuteFrequencies, p.Frequency) {
				return fmt.Errorf("%w: frequency %d not valid for frequencyType minute (want one of %v)",
					ErrInvalidParams, p.Frequency, minuteFrequencies)
			}
		} else if p.Frequency != 1 {
			return fmt.Errorf("%w: frequency must be 1 for frequencyType %q", ErrInvalidParams, p.FrequencyType)
		}
	}

	return nil
}

func (p PriceHistoryParams) query() url.Values {
	params := url.Values{
		"periodType":    {p.PeriodType},
		"frequencyType": {p.FrequencyType},
	}
	if p.Period != 0 {
		params.Set("period", strconv.Itoa(p.Period))
	}
	if p.Frequency != 0 {
		params.Set("frequency", strconv.Itoa(p.Frequency))
	}
	if p.StartDate != 0 {
		params.Set("startDate", strconv.FormatInt(p.StartDate, 10))
	}
	if p.EndDate != 0 {
		params.Set("endDate", strconv.FormatInt(p.EndDate, 10))
	}
	params.Set("needExtendedHoursData", strconv.FormatBool(p.NeedExtendedHoursData))
	return params
}

// GetPriceHistory validates p and fetches candles for symbol.
func (c *Client) GetPriceHistory(ctx context.Context, symbol string, p PriceHistoryParams) (map[string]any, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/marketdata/%s/pricehistory", c.baseURL, url.PathEscape(symbol))
	return c.get(ctx, u, p.query())
}
