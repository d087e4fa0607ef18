package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
server:
  port: 9090
database:
  driver: sqlite
  database: ledger.db
credits:
  packs:
    - variantId: "111"
      code: PACK_10
      credits: 10
    - variantId: "222"
      code: PACK_50
      credits: 50
`

func loadYAML(t *testing.T, content string) (*Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(content)))
	return decode(v, Test)
}

func TestDecodeDefaults(t *testing.T) {
	cfg, err := loadYAML(t, baseYAML)
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 120*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Generation.ChargeRetryDelay)
	assert.Equal(t, 90*time.Second, cfg.Providers.OpenAI.Timeout)
	assert.Equal(t, int64(0), cfg.Credits.StartingBalance)
	assert.Equal(t, int64(1), cfg.Credits.GenerateCost)
	assert.Equal(t, int64(2), cfg.Credits.BackgroundRemovalCost)
	assert.Equal(t, []string{"paid", "completed"}, cfg.Credits.PaidStatuses)
	assert.Len(t, cfg.Credits.Packs, 2)
	assert.False(t, cfg.Entitlement.BackgroundRemovalRequiresPurchase)
}

func TestDecodeEnvOverrides(t *testing.T) {
	t.Setenv("MC_OPENAI_API_KEY", "sk-test")
	t.Setenv("MC_SERVER_PORT", "7070")
	t.Setenv("MC_CREDITS_STARTING_BALANCE", "1")
	t.Setenv("MC_AUTH_JWT_SECRET", "secret")
	t.Setenv("MC_AUTH_REQUIRE_TOKEN", "true")

	cfg, err := loadYAML(t, baseYAML)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, int64(1), cfg.Credits.StartingBalance)
	assert.True(t, cfg.Auth.RequireToken)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "Duplicate pack variant",
			yaml: `
database: {driver: sqlite, database: x.db}
credits:
  packs:
    - {variantId: "1", code: A, credits: 1}
    - {variantId: "1", code: B, credits: 2}
`,
			wantErr: "duplicate credit pack variant",
		},
		{
			name: "Non-positive pack credits",
			yaml: `
database: {driver: sqlite, database: x.db}
credits:
  packs:
    - {variantId: "1", code: A, credits: 0}
`,
			wantErr: "Credits",
		},
		{
			name:    "Unknown driver",
			yaml:    `database: {driver: mysql, database: x}`,
			wantErr: "Driver",
		},
		{
			name:    "Postgres without host",
			yaml:    `database: {driver: postgres, database: x}`,
			wantErr: "Host",
		},
		{
			name: "Required token without secret",
			yaml: `
database: {driver: sqlite, database: x.db}
auth: {requireToken: true}
`,
			wantErr: "auth.requireToken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadYAML(t, tt.yaml)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestShippedPackCatalogs(t *testing.T) {
	storefront := map[string]int64{"MINI_10": 10, "STARTER_30": 30, "PRO_80": 80}

	for _, env := range []string{Development, Production} {
		t.Run(env, func(t *testing.T) {
			v := viper.New()
			v.SetConfigFile("../../../configs/" + env + ".yaml")
			require.NoError(t, v.ReadInConfig())

			var packs []CreditPackConfig
			require.NoError(t, v.UnmarshalKey("credits.packs", &packs))

			got := make(map[string]int64, len(packs))
			for _, pack := range packs {
				got[pack.Code] = pack.Credits
			}
			assert.Equal(t, storefront, got)
		})
	}
}
