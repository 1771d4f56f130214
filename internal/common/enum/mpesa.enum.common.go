package enum

type MpesaEnvEnum string

const (
	MPESA_SANDBOX    MpesaEnvEnum = "sandbox"
	MPESA_PRODUCTION MpesaEnvEnum = "production"
)

func (e MpesaEnvEnum) ToString() string {
	return string(e)
}

func (e MpesaEnvEnum) IsValid() bool {
	switch e {
	case MPESA_SANDBOX, MPESA_PRODUCTION:
		return true
	}
	return false
}
