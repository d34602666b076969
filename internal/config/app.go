package config

type AppConfig struct {
	CurrencyUnit string `yaml:"currency-symbol"`
	TimezoneName string `yaml:"timezone"`
}

func (s *AppConfig) CurrencySymbol() string {
	return s.CurrencyUnit
}

func (s *AppConfig) Timezone() string {
	return s.TimezoneName
}
