package budget

import "encoding/json"

// Alert is the tier-crossed event emitted when an add or edit pushes the
// daily spending over a budget tier. It travels as JSON over the alerts
// topic; display is the notifier's concern.
type Alert struct {
	UserID     int64   `json:"userID"`
	Date       string  `json:"date"`
	Level      string  `json:"level"`
	Spent      int64   `json:"spent"`
	Limit      int64   `json:"limit"`
	Percentage float64 `json:"percentage"`
}

func (a Alert) Marshal() ([]byte, error) {
	return json.Marshal(a)
}

func UnmarshalAlert(data []byte) (Alert, error) {
	var a Alert
	err := json.Unmarshal(data, &a)
	return a, err
}
