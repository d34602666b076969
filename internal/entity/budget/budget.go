package budget

// Config holds the user budget configuration: one daily amount and optional
// per-category amounts. Zero means unset.
type Config struct {
	Daily      int64
	Categories map[string]int64
}

func (c Config) CategoryLimit(category string) int64 {
	return c.Categories[category]
}

func (c Config) WithDaily(amount int64) Config {
	c.Daily = amount
	return c
}

func (c Config) WithCategory(category string, amount int64) Config {
	m := make(map[string]int64, len(c.Categories)+1)
	for k, v := range c.Categories {
		m[k] = v
	}
	m[category] = amount
	c.Categories = m
	return c
}
