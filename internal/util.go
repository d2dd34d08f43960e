package internal

import (
	"encoding/json"
	"fmt"
	"os"
)

func Pprint(i interface{}) {
	bytes, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(bytes))
}

type Secrets struct {
	JwtSigningKey string           `json:"jwtSigningKey"`
	Directory     DirectorySecrets `json:"directory"`
	Prices        PriceSecrets     `json:"prices"`
	Db            DbSecrets        `json:"db"`
}

// DirectorySecrets selects the account directory backend. Backend is
// "postgres" or "json"; JsonPath only applies to the json backend.
type DirectorySecrets struct {
	Backend  string `json:"backend"`
	JsonPath string `json:"jsonPath"`
}

// PriceSecrets selects the quote source. Source is "static" or "live".
type PriceSecrets struct {
	Source string `json:"source"`
}

type DbSecrets struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	Port      string `json:"port"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	EnableSsl bool   `json:"enableSsl"`
}

func (t DbSecrets) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

func LoadSecrets() (*Secrets, error) {
	secretsFile := "/go/src/app/secrets.json"
	if os.Getenv("KIWI_ENV") == "dev" {
		secretsFile = "secrets-dev.json"
	} else if os.Getenv("KIWI_ENV") == "test" {
		secretsFile = "secrets-test.json"
	}
	f, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open secrets.json: %w", err)
	}

	secrets := Secrets{}
	err = json.Unmarshal(f, &secrets)
	if err != nil {
		return nil, err
	}

	return &secrets, nil
}
