package entities

const (
	TransportREST string = "rest"
	TransportAMQP string = "amqp"
	TransportMQTT string = "mqtt"
	TransportFile string = "file"
)

type Config struct {
	Device    string          `yaml:"device"`
	LogLevel  string          `yaml:"logLevel"`
	Transport string          `yaml:"transport"`
	Timeout   string          `yaml:"timeout"`
	EdgeX     EdgeXConfig     `yaml:"edgex"`
	AMQP      AMQPConfig      `yaml:"amqp"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	FileStore FileStoreConfig `yaml:"fileStore"`
}

type EdgeXConfig struct {
	MetadataURL string `yaml:"metadataUrl"`
	CommandURL  string `yaml:"commandUrl"`
}

type AMQPConfig struct {
	URL string `yaml:"url"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"clientId"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type FileStoreConfig struct {
	Path string `yaml:"path"`
}
