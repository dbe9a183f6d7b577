package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Environment variable names recognized for overrides. These match the
// variable names the deployed emailer has always used.
const (
	EnvDynamoDBTableName = "dynamodb_table_name"
	EnvS3BucketName      = "s3_bucket_name"
	EnvAdminEmailSource  = "admin_email_source"
)

type Server struct {
	ListenAddress  string   `yaml:"listenAddress"`
	TLSCertFile    string   `yaml:"tlsCertFile"`
	TLSKeyFile     string   `yaml:"tlsKeyFile"`
	TrustedProxies []string `yaml:"trustedProxies"`
}

type AWS struct {
	Region string `yaml:"region"`
	// Endpoint optionally points all AWS clients at a custom endpoint
	// (MinIO, LocalStack, DynamoDB Local).
	Endpoint string `yaml:"endpoint"`
}

type DynamoDB struct {
	// TableName is the account mapping table, keyed by the string
	// attribute "uuid" holding the account identifier.
	TableName string `yaml:"tableName"`
}

type S3 struct {
	// BucketName is the bucket holding the HTML email templates.
	BucketName string `yaml:"bucketName"`
}

type SMTP struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	RetryCount         int    `yaml:"retryCount"`
	RetryBackoffMs     int    `yaml:"retryBackoffMs"`
}

type Mail struct {
	// Provider selects the outgoing mail transport: "ses" or "smtp".
	Provider string `yaml:"provider"`
	// SenderAddress is the From address for all outgoing notifications.
	SenderAddress string `yaml:"senderAddress"`
	SMTP          SMTP   `yaml:"smtp"`
}

type Kafka struct {
	// Brokers enables the Kafka trigger consumer when non-empty.
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"groupID"`
}

type Metrics struct {
	ListenAddress string `yaml:"listenAddress"`
}

type Config struct {
	Server   Server   `yaml:"server"`
	AWS      AWS      `yaml:"aws"`
	DynamoDB DynamoDB `yaml:"dynamodb"`
	S3       S3       `yaml:"s3"`
	Mail     Mail     `yaml:"mail"`
	Kafka    Kafka    `yaml:"kafka"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Load loads the emailer configuration from a file path and applies
// environment overrides. If configPath is empty, defaults to
// "./config.yaml"; a missing default file is not an error since every
// required setting can arrive through the environment.
func Load(configPath ...string) (Config, error) {
	var path string
	explicit := false

	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
		explicit = true
	} else {
		path = "./config.yaml"
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		if explicit || !os.IsNotExist(err) {
			return config, fmt.Errorf("trying to open emailer config file %s: %v", path, err)
		}
	} else if err := yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overrides file-provided values with the environment variables the
// deployment contract defines.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDynamoDBTableName); v != "" {
		c.DynamoDB.TableName = v
	}
	if v := os.Getenv(EnvS3BucketName); v != "" {
		c.S3.BucketName = v
	}
	if v := os.Getenv(EnvAdminEmailSource); v != "" {
		c.Mail.SenderAddress = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" && c.AWS.Region == "" {
		c.AWS.Region = v
	}
}

// Defaults fills in values that have sensible fallbacks.
func (c *Config) Defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.Metrics.ListenAddress == "" {
		c.Metrics.ListenAddress = ":8081"
	}
	if c.Mail.Provider == "" {
		c.Mail.Provider = "ses"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "account-notifications"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "emailer"
	}
}

// Validate reports the settings without which no email could ever be sent.
func (c Config) Validate() error {
	required := map[string]string{
		EnvDynamoDBTableName: c.DynamoDB.TableName,
		EnvS3BucketName:      c.S3.BucketName,
		EnvAdminEmailSource:  c.Mail.SenderAddress,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if c.Mail.Provider != "ses" && c.Mail.Provider != "smtp" {
		return fmt.Errorf("unknown mail provider %q", c.Mail.Provider)
	}
	if c.Mail.Provider == "smtp" && c.Mail.SMTP.Host == "" {
		return fmt.Errorf("mail.smtp.host is required for the smtp provider")
	}
	return nil
}
