package enum

type EnvEnum string

const (
	LOCAL       EnvEnum = "local"
	DEVELOPMENT EnvEnum = "development"
	PRODUCTION  EnvEnum = "production"
	STAGING     EnvEnum = "staging"
)

func (e EnvEnum) ToString() string {
	return string(e)
}

func (e EnvEnum) IsValid() bool {
	switch e {
	case LOCAL, DEVELOPMENT, PRODUCTION, STAGING:
		return true
	}
	return false
}

// IsDevelopment reports whether logs should be human readable. An unset
// APP_ENV counts as development.
func (e EnvEnum) IsDevelopment() bool {
	return e == "" || e == LOCAL || e == DEVELOPMENT
}
