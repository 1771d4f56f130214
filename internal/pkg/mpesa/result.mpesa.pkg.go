package mpesa

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result is implemented by every normalized callback.
type Result interface {
	Kind() CallbackKind
	IsSuccessful() bool
	ResultCode() int
	ResultDescription() string
}

// AsyncResult is a Result delivered in the {"Result": {...}} envelope.
type AsyncResult interface {
	Result
	ResultType() int
	OriginatorConversationID() string
	ConversationID() string
	TransactionID() string
	Parameters() Params
	ReferenceData() Params
}

// nairobi is East Africa Time; the gateway reports local timestamps without
// an offset.
var nairobi = time.FixedZone("EAT", 3*60*60)

const (
	compactTimeLayout = "20060102150405"
	dottedTimeLayout  = "02.01.2006 15:04:05"
)

func parseGatewayTime(value *string, layout string) *time.Time {
	if value == nil {
		return nil
	}
	t, err := time.ParseInLocation(layout, *value, nairobi)
	if err != nil {
		return nil
	}
	return &t
}

/*----------- STK push -----------*/

// StkPushResult is the outcome of an STK push (Lipa Na M-Pesa Online).
type StkPushResult struct {
	merchantRequestID string
	checkoutRequestID string
	resultCode        int
	resultDesc        string
	metadata          Params
}

func (r *StkPushResult) Kind() CallbackKind        { return StkPushCallback }
func (r *StkPushResult) IsSuccessful() bool        { return r.resultCode == 0 }
func (r *StkPushResult) ResultCode() int           { return r.resultCode }
func (r *StkPushResult) ResultDescription() string { return r.resultDesc }
func (r *StkPushResult) MerchantRequestID() string { return r.merchantRequestID }
func (r *StkPushResult) CheckoutRequestID() string { return r.checkoutRequestID }

// Metadata returns a copy of the flattened CallbackMetadata items.
func (r *StkPushResult) Metadata() Params { return r.metadata.Clone() }

func (r *StkPushResult) Amount() *decimal.Decimal { return r.metadata.Decimal("Amount") }
func (r *StkPushResult) ReceiptNumber() *string   { return r.metadata.String("MpesaReceiptNumber") }
func (r *StkPushResult) TransactionDate() *string { return r.metadata.String("TransactionDate") }
func (r *StkPushResult) PhoneNumber() *string     { return r.metadata.String("PhoneNumber") }

// TransactionTime parses TransactionDate (yyyyMMddHHmmss, EAT).
func (r *StkPushResult) TransactionTime() *time.Time {
	return parseGatewayTime(r.TransactionDate(), compactTimeLayout)
}

/*----------- Result envelope -----------*/

type transactionResult struct {
	kind                     CallbackKind
	resultType               int
	resultCode               int
	resultDesc               string
	originatorConversationID string
	conversationID           string
	transactionID            string
	params                   Params
	reference                Params
}

func (r *transactionResult) Kind() CallbackKind               { return r.kind }
func (r *transactionResult) IsSuccessful() bool               { return r.resultCode == 0 }
func (r *transactionResult) ResultType() int                  { return r.resultType }
func (r *transactionResult) ResultCode() int                  { return r.resultCode }
func (r *transactionResult) ResultDescription() string        { return r.resultDesc }
func (r *transactionResult) OriginatorConversationID() string { return r.originatorConversationID }
func (r *transactionResult) ConversationID() string           { return r.conversationID }
func (r *transactionResult) TransactionID() string            { return r.transactionID }
func (r *transactionResult) Parameters() Params               { return r.params.Clone() }
func (r *transactionResult) ReferenceData() Params            { return r.reference.Clone() }

// QueueTimeoutURL is echoed back by the gateway in ReferenceData.
func (r *transactionResult) QueueTimeoutURL() *string {
	return r.reference.String("QueueTimeoutURL")
}

/*----------- B2C -----------*/

type B2CResult struct {
	transactionResult
}

func (r *B2CResult) TransactionAmount() *decimal.Decimal { return r.params.Decimal("TransactionAmount") }
func (r *B2CResult) TransactionReceipt() *string         { return r.params.String("TransactionReceipt") }
func (r *B2CResult) ReceiverPartyPublicName() *string    { return r.params.String("ReceiverPartyPublicName") }

func (r *B2CResult) TransactionCompletedDateTime() *string {
	return r.params.String("TransactionCompletedDateTime")
}

// TransactionCompletedTime parses TransactionCompletedDateTime (dd.MM.yyyy HH:mm:ss, EAT).
func (r *B2CResult) TransactionCompletedTime() *time.Time {
	return parseGatewayTime(r.TransactionCompletedDateTime(), dottedTimeLayout)
}

// RecipientIsRegisteredCustomer maps the gateway's Y/N flag.
func (r *B2CResult) RecipientIsRegisteredCustomer() *bool {
	flag := r.params.String("B2CRecipientIsRegisteredCustomer")
	if flag == nil {
		return nil
	}
	var registered bool
	switch *flag {
	case "Y", "y":
		registered = true
	case "N", "n":
		registered = false
	default:
		return nil
	}
	return &registered
}

func (r *B2CResult) UtilityAccountAvailableFunds() *decimal.Decimal {
	return r.params.Decimal("B2CUtilityAccountAvailableFunds")
}

func (r *B2CResult) WorkingAccountAvailableFunds() *decimal.Decimal {
	return r.params.Decimal("B2CWorkingAccountAvailableFunds")
}

func (r *B2CResult) ChargesPaidAccountAvailableFunds() *decimal.Decimal {
	return r.params.Decimal("B2CChargesPaidAccountAvailableFunds")
}

/*----------- Transaction status -----------*/

type TransactionStatusResult struct {
	transactionResult
}

func (r *TransactionStatusResult) TransactionStatus() *string { return r.params.String("TransactionStatus") }
func (r *TransactionStatusResult) Amount() *decimal.Decimal   { return r.params.Decimal("Amount") }
func (r *TransactionStatusResult) ReceiptNumber() *string     { return r.params.String("ReceiptNo") }
func (r *TransactionStatusResult) InitiatedTime() *string     { return r.params.String("InitiatedTime") }
func (r *TransactionStatusResult) FinalisedTime() *string     { return r.params.String("FinalisedTime") }
func (r *TransactionStatusResult) DebitAccountType() *string  { return r.params.String("DebitAccountType") }
func (r *TransactionStatusResult) CreditPartyName() *string   { return r.params.String("CreditPartyName") }
func (r *TransactionStatusResult) ReasonType() *string        { return r.params.String("ReasonType") }
func (r *TransactionStatusResult) TransactionReason() *string { return r.params.String("TransactionReason") }

// DebitPartyNames lists every DebitPartyName in the order received.
func (r *TransactionStatusResult) DebitPartyNames() []string {
	return r.params.Strings("DebitPartyName")
}

// DebitPartyCharges decodes the DebitPartyCharges balance list.
func (r *TransactionStatusResult) DebitPartyCharges() ([]BalanceRecord, error) {
	return balancesFrom(r.params, "DebitPartyCharges")
}

func (r *TransactionStatusResult) DebitPartyCharge(account string) (*BalanceRecord, error) {
	return balanceFor(r.params, "DebitPartyCharges", account)
}

/*----------- Account balance -----------*/

type AccountBalanceResult struct {
	transactionResult
}

// CompletedTime is the raw BOCompletedTime value.
func (r *AccountBalanceResult) CompletedTime() *string { return r.params.String("BOCompletedTime") }

func (r *AccountBalanceResult) AccountBalances() ([]BalanceRecord, error) {
	return balancesFrom(r.params, "AccountBalance")
}

func (r *AccountBalanceResult) BalanceForAccount(account string) (*BalanceRecord, error) {
	return balanceFor(r.params, "AccountBalance", account)
}

/*----------- Reversal -----------*/

type ReversalResult struct {
	transactionResult
}

func (r *ReversalResult) Amount() *decimal.Decimal          { return r.params.Decimal("Amount") }
func (r *ReversalResult) Charge() *decimal.Decimal          { return r.params.Decimal("Charge") }
func (r *ReversalResult) OriginalTransactionID() *string    { return r.params.String("OriginalTransactionID") }
func (r *ReversalResult) TransactionCompletedTime() *string { return r.params.String("TransCompletedTime") }
func (r *ReversalResult) CreditPartyPublicName() *string    { return r.params.String("CreditPartyPublicName") }
func (r *ReversalResult) DebitPartyPublicName() *string     { return r.params.String("DebitPartyPublicName") }

func (r *ReversalResult) DebitAccountBalances() ([]BalanceRecord, error) {
	return balancesFrom(r.params, "DebitAccountBalance")
}

func (r *ReversalResult) DebitAccountBalance(account string) (*BalanceRecord, error) {
	return balanceFor(r.params, "DebitAccountBalance", account)
}
