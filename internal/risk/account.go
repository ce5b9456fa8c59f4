package risk

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Account is the persisted trading account used for position sizing.
type Account struct {
	Balance   float64   `json:"balance"`
	RiskPct   float64   `json:"risk_pct"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoadAccount reads the account from a JSON file.
// A missing file yields an error matching fs.ErrNotExist.
func LoadAccount(filePath string) (*Account, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var acc Account
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// SaveAccount writes the account to a JSON file.
func SaveAccount(filePath string, acc *Account) error {
	acc.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(acc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
