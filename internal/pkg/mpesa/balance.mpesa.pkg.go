package mpesa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	balanceRecordSeparator = "&"
	balanceFieldSeparator  = "|"
)

// ErrInvalidBalance is matched by every *FormatError.
var ErrInvalidBalance = errors.New("mpesa: invalid balance list")

// BalanceRecord is one Account|Currency|Amount segment of a balance list.
type BalanceRecord struct {
	Account  string          `json:"account"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// FormatError reports the first malformed segment of a balance list.
type FormatError struct {
	Segment string
	Reason  string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mpesa: balance segment %q: %s: %v", e.Segment, e.Reason, e.Err)
	}
	return fmt.Sprintf("mpesa: balance segment %q: %s", e.Segment, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrInvalidBalance }

// ParseBalanceList decodes "Account|Currency|Amount[|...]&..." into records.
// Only the first three fields of a segment are read. A blank string is an
// empty list.
func ParseBalanceList(raw string) ([]BalanceRecord, error) {
	if strings.TrimSpace(raw) == "" {
		return []BalanceRecord{}, nil
	}

	segments := strings.Split(raw, balanceRecordSeparator)
	records := make([]BalanceRecord, 0, len(segments))
	for _, segment := range segments {
		fields := strings.Split(segment, balanceFieldSeparator)
		if len(fields) < 3 {
			return nil, &FormatError{
				Segment: segment,
				Reason:  fmt.Sprintf("expected at least 3 fields, got %d", len(fields)),
			}
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, &FormatError{Segment: segment, Reason: "invalid amount", Err: err}
		}

		records = append(records, BalanceRecord{
			Account:  fields[0],
			Currency: fields[1],
			Amount:   amount,
		})
	}
	return records, nil
}

// FindByAccount returns the first record whose Account equals name exactly.
func FindByAccount(records []BalanceRecord, name string) *BalanceRecord {
	record, ok := lo.Find(records, func(r BalanceRecord) bool {
		return r.Account == name
	})
	if !ok {
		return nil
	}
	return &record
}

// FormatBalanceList is the inverse of ParseBalanceList for the three fields it
// reads.
func FormatBalanceList(records []BalanceRecord) string {
	segments := lo.Map(records, func(r BalanceRecord, _ int) string {
		return strings.Join([]string{r.Account, r.Currency, r.Amount.StringFixed(2)}, balanceFieldSeparator)
	})
	return strings.Join(segments, balanceRecordSeparator)
}

// balancesFrom runs the codec over a string parameter. An absent parameter is
// an empty list.
func balancesFrom(params Params, key string) ([]BalanceRecord, error) {
	raw := params.String(key)
	if raw == nil {
		return []BalanceRecord{}, nil
	}
	return ParseBalanceList(*raw)
}

func balanceFor(params Params, key, account string) (*BalanceRecord, error) {
	records, err := balancesFrom(params, key)
	if err != nil {
		return nil, err
	}
	return FindByAccount(records, account), nil
}
