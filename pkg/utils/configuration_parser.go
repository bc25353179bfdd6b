package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type config interface {
	entities.Config | map[string]entities.DeviceRecord | entities.Rule
}

func readTextFile(filepathName string) ([]byte, error) {
	fileContent, err := os.ReadFile(filepath.Clean(filepathName))
	return fileContent, err
}

func ConfigurationParser[T config](filepathName string, configEntity T) (T, error) {
	fileContent, err := readTextFile(filepath.Clean(filepathName))
	if err != nil {
		return configEntity, err
	}

	err = yaml.Unmarshal(fileContent, &configEntity)
	return configEntity, err
}

// LoadEnvironment loads variables from the given .env files into the process
// environment. Missing files are ignored, variables already set win.
func LoadEnvironment(filenames ...string) error {
	existing := make([]string, 0, len(filenames))
	for _, name := range filenames {
		if _, err := os.Stat(name); err == nil {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnvironment overrides conf with the service URLs and settings found in
// the environment.
func ApplyEnvironment(conf entities.Config) entities.Config {
	overrides := map[string]*string{
		"DEVICE_NAME":       &conf.Device,
		"LOG_LEVEL":         &conf.LogLevel,
		"COMMAND_TRANSPORT": &conf.Transport,
		"REQUEST_TIMEOUT":   &conf.Timeout,
		"CORE_METADATA_URL": &conf.EdgeX.MetadataURL,
		"CORE_COMMAND_URL":  &conf.EdgeX.CommandURL,
		"AMQP_URL":          &conf.AMQP.URL,
		"MQTT_BROKER":       &conf.MQTT.Broker,
		"MQTT_CLIENT_ID":    &conf.MQTT.ClientID,
		"MQTT_USERNAME":     &conf.MQTT.Username,
		"MQTT_PASSWORD":     &conf.MQTT.Password,
		"RULES_FILE":        &conf.FileStore.Path,
	}
	for variable, field := range overrides {
		if value := strings.TrimSpace(os.Getenv(variable)); value != "" {
			*field = value
		}
	}
	if conf.Transport == "" {
		conf.Transport = entities.TransportREST
	}
	if conf.LogLevel == "" {
		conf.LogLevel = "info"
	}
	return conf
}
