package mpesa

// Transaction types and command ids accepted by the gateway.
const (
	CustomerPayBillOnline  = "CustomerPayBillOnline"
	CustomerBuyGoodsOnline = "CustomerBuyGoodsOnline"
	BusinessPayment        = "BusinessPayment"
	SalaryPayment          = "SalaryPayment"
	PromotionPayment       = "PromotionPayment"
	AccountBalanceCommand  = "AccountBalance"
	TransactionStatusQuery = "TransactionStatusQuery"
	TransactionReversal    = "TransactionReversal"
)

type StkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode" validate:"required,shortcode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType" validate:"omitempty,oneof=CustomerPayBillOnline CustomerBuyGoodsOnline"`
	Amount            int64  `json:"Amount" validate:"required,gt=0"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber" validate:"required,msisdn"`
	CallBackURL       string `json:"CallBackURL" validate:"required,url"`
	AccountReference  string `json:"AccountReference" validate:"max=12"`
	TransactionDesc   string `json:"TransactionDesc" validate:"max=13"`
}

type StkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type StkQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode" validate:"required,shortcode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID" validate:"required"`
}

type StkQueryResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResultCode          string `json:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"`
}

type B2CRequest struct {
	OriginatorConversationID string `json:"OriginatorConversationID"`
	InitiatorName            string `json:"InitiatorName" validate:"required"`
	SecurityCredential       string `json:"SecurityCredential"`
	CommandID                string `json:"CommandID" validate:"omitempty,oneof=BusinessPayment SalaryPayment PromotionPayment"`
	Amount                   int64  `json:"Amount" validate:"required,gt=0"`
	PartyA                   string `json:"PartyA" validate:"required,shortcode"`
	PartyB                   string `json:"PartyB" validate:"required,msisdn"`
	Remarks                  string `json:"Remarks"`
	QueueTimeOutURL          string `json:"QueueTimeOutURL" validate:"omitempty,url"`
	ResultURL                string `json:"ResultURL" validate:"required,url"`
	Occasion                 string `json:"Occasion"`
}

// AsyncResponse is the synchronous acknowledgement of a request whose
// outcome arrives later as a Result callback.
type AsyncResponse struct {
	OriginatorConversationID string `json:"OriginatorConversationID"`
	ConversationID           string `json:"ConversationID"`
	ResponseCode             string `json:"ResponseCode"`
	ResponseDescription      string `json:"ResponseDescription"`
}

type B2BRequest struct {
	PrimaryShortCode   string `json:"primaryShortCode" validate:"required,shortcode"`
	ReceiverShortCode  string `json:"receiverShortCode" validate:"required,shortcode"`
	Amount             int64  `json:"amount" validate:"required,gt=0"`
	PaymentRef         string `json:"paymentRef" validate:"required"`
	CallbackURL        string `json:"callbackUrl" validate:"required,url"`
	PartnerName        string `json:"partnerName" validate:"required"`
	RequestRefID       string `json:"RequestRefID" validate:"required"`
	SecurityCredential string `json:"SecurityCredential"`
}

type B2BResponse struct {
	Code   string `json:"code"`
	Status string `json:"status"`
}

type C2BRegisterRequest struct {
	ShortCode       string `json:"ShortCode" validate:"required,shortcode"`
	ResponseType    string `json:"ResponseType" validate:"required,oneof=Completed Cancelled Canceled"`
	ConfirmationURL string `json:"ConfirmationURL" validate:"required,url"`
	ValidationURL   string `json:"ValidationURL" validate:"required,url"`
}

type C2BSimulateRequest struct {
	ShortCode     string `json:"ShortCode" validate:"required,shortcode"`
	CommandID     string `json:"CommandID" validate:"omitempty,oneof=CustomerPayBillOnline CustomerBuyGoodsOnline"`
	Amount        int64  `json:"Amount" validate:"required,gt=0"`
	Msisdn        string `json:"Msisdn" validate:"required,msisdn"`
	BillRefNumber string `json:"BillRefNumber"`
}

type C2BResponse struct {
	OriginatorConversationID string `json:"OriginatorCoversationID"`
	ResponseCode             string `json:"ResponseCode"`
	ResponseDescription      string `json:"ResponseDescription"`
}

type AccountBalanceRequest struct {
	Initiator          string `json:"Initiator" validate:"required"`
	SecurityCredential string `json:"SecurityCredential"`
	CommandID          string `json:"CommandID"`
	PartyA             string `json:"PartyA" validate:"required,shortcode"`
	IdentifierType     string `json:"IdentifierType" validate:"required,oneof=1 2 4"`
	Remarks            string `json:"Remarks"`
	QueueTimeOutURL    string `json:"QueueTimeOutURL" validate:"omitempty,url"`
	ResultURL          string `json:"ResultURL" validate:"required,url"`
}

type TransactionStatusRequest struct {
	Initiator          string `json:"Initiator" validate:"required"`
	SecurityCredential string `json:"SecurityCredential"`
	CommandID          string `json:"CommandID"`
	TransactionID      string `json:"TransactionID" validate:"required"`
	PartyA             string `json:"PartyA" validate:"required"`
	IdentifierType     string `json:"IdentifierType" validate:"required,oneof=1 2 4"`
	ResultURL          string `json:"ResultURL" validate:"required,url"`
	QueueTimeOutURL    string `json:"QueueTimeOutURL" validate:"omitempty,url"`
	Remarks            string `json:"Remarks"`
	Occasion           string `json:"Occasion"`
}

type ReversalRequest struct {
	Initiator              string `json:"Initiator" validate:"required"`
	SecurityCredential     string `json:"SecurityCredential"`
	CommandID              string `json:"CommandID"`
	TransactionID          string `json:"TransactionID" validate:"required"`
	Amount                 int64  `json:"Amount" validate:"required,gt=0"`
	ReceiverParty          string `json:"ReceiverParty" validate:"required"`
	ReceiverIdentifierType string `json:"RecieverIdentifierType" validate:"omitempty,oneof=1 2 4 11"`
	ResultURL              string `json:"ResultURL" validate:"required,url"`
	QueueTimeOutURL        string `json:"QueueTimeOutURL" validate:"omitempty,url"`
	Remarks                string `json:"Remarks"`
	Occasion               string `json:"Occasion"`
}
