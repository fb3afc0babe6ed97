package indexdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"consortium-compare/pkg/constants"
	"consortium-compare/pkg/datetime"
	"go.uber.org/zap"
)

// DefaultSGSBaseURL is the public endpoint of the Brazilian central bank's
// SGS time-series API.
const DefaultSGSBaseURL = "https://api.bcb.gov.br/dados/serie"

const sgsRequestTimeout = 30 * time.Second

// SGSClient fetches a monthly index series (e.g. the IPCA variation, series
// 433) from the SGS API and converts it to multiplicative factors.
type SGSClient struct {
	httpClient *http.Client
	baseURL    string
	series     int
	logger     *zap.Logger
}

// NewSGSClient creates a client for the given SGS series code.
func NewSGSClient(logger *zap.Logger, series int) *SGSClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if series <= 0 {
		series = constants.DefaultIndexSeries
	}
	return &SGSClient{
		httpClient: &http.Client{Timeout: sgsRequestTimeout},
		baseURL:    DefaultSGSBaseURL,
		series:     series,
		logger:     logger,
	}
}

// WithBaseURL overrides the API endpoint; used by tests against a local
// server.
func (c *SGSClient) WithBaseURL(baseURL string) *SGSClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// observation is one SGS data point: a dd/MM/yyyy date and a percentage
// value with a comma decimal separator.
type observation struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// MonthlyFactors fetches the trailing monthly observations of the series
// and returns them as 1+monthly_fraction multipliers, oldest first,
// monthly-resampled with gaps forward-filled.
func (c *SGSClient) MonthlyFactors(ctx context.Context, months int) ([]float64, error) {
	if months <= 0 {
		months = constants.TrailingIndexMonths
	}

	url := fmt.Sprintf("%s/bcdata.sgs.%d/dados/ultimos/%d?formato=json", c.baseURL, c.series, months)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for series %d: %v", ErrUnavailable, c.series, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching series %d: %v", ErrUnavailable, c.series, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: series %d returned status %d", ErrUnavailable, c.series, resp.StatusCode)
	}

	var rows []observation
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decoding series %d: %v", ErrUnavailable, c.series, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: series %d returned no observations", ErrUnavailable, c.series)
	}

	factors, err := resampleMonthly(rows)
	if err != nil {
		return nil, err
	}
	if len(factors) > months {
		factors = factors[len(factors)-months:]
	}

	c.logger.Debug(fmt.Sprintf("fetched %d monthly factors for series %d", len(factors), c.series),
		zap.String("op", "indexdata.MonthlyFactors"),
	)
	return factors, nil
}

// resampleMonthly converts raw observations into an ordered monthly factor
// series. Months missing an observation carry the previous month's factor
// forward.
func resampleMonthly(rows []observation) ([]float64, error) {
	byMonth := make(map[string]float64, len(rows))
	firstMonth, lastMonth := "", ""
	for _, row := range rows {
		date, err := time.Parse(datetime.ObservationLayout, row.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: bad observation date %q: %v", ErrUnavailable, row.Data, err)
		}
		percent, err := parseDecimalComma(row.Valor)
		if err != nil {
			return nil, fmt.Errorf("%w: bad observation value %q: %v", ErrUnavailable, row.Valor, err)
		}

		month := datetime.MonthKey(date)
		byMonth[month] = 1 + percent/constants.PercentageMultiplier
		if firstMonth == "" {
			firstMonth, lastMonth = month, month
			continue
		}
		if before, err := datetime.MonthBeforeMonth(month, firstMonth); err == nil && before {
			firstMonth = month
		}
		if after, err := datetime.MonthBeforeMonth(lastMonth, month); err == nil && after {
			lastMonth = month
		}
	}

	var factors []float64
	previous := 0.0
	for month := firstMonth; ; {
		factor, ok := byMonth[month]
		if !ok {
			factor = previous
		}
		factors = append(factors, factor)
		previous = factor

		if month == lastMonth {
			break
		}
		next, err := datetime.NextMonth(month)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		month = next
	}
	return factors, nil
}

func parseDecimalComma(value string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(value), ",", ".", 1), 64)
}
