package config

import (
	"log"

	"github.com/spf13/viper"
)

// GarageProfile is the garage header and invoice wording used until an
// operator saves their own settings
type GarageProfile struct {
	Name    string   `mapstructure:"name"`
	Address string   `mapstructure:"address"`
	Phone   string   `mapstructure:"phone"`
	Email   string   `mapstructure:"email"`
	GSTIN   string   `mapstructure:"gstin"`
	Website string   `mapstructure:"website"`
	Terms   []string `mapstructure:"terms"`
}

// DefaultGarageProfile is used when no profile file is present
func DefaultGarageProfile() GarageProfile {
	return GarageProfile{
		Name:    "MechanicPro Garage",
		Address: "123 Service Lane, Auto Hub, Pune, Maharashtra - 411001",
		Phone:   "+91 98765 43210",
		Terms: []string{
			"Warranty on service is valid for 10 days or 200kms.",
			"No warranty on electrical items and plastic parts.",
			"Goods once sold will not be taken back.",
			"Subject to local jurisdiction.",
		},
	}
}

// LoadGarageProfile reads the [garage] table of a TOML file over the defaults
func LoadGarageProfile(path string) GarageProfile {
	profile := DefaultGarageProfile()
	if path == "" {
		return profile
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("⚠️  Garage profile %s not loaded, using defaults: %v", path, err)
		return profile
	}
	if err := v.UnmarshalKey("garage", &profile); err != nil {
		log.Printf("❌ Failed to parse garage profile %s: %v", path, err)
		return DefaultGarageProfile()
	}
	if len(profile.Terms) == 0 {
		profile.Terms = DefaultGarageProfile().Terms
	}

	log.Printf("✅ Garage profile loaded from %s", path)
	return profile
}
