/**
 * @description
 * This file handles the configuration management for the email-service.
 * It uses the Viper library to read settings from environment variables or a
 * .env file.
 *
 * @dependencies
 * - github.com/spf13/viper: For configuration management.
 */
package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	RabbitMQURL        string `mapstructure:"RABBITMQ_URL"`
	ServerPort         string `mapstructure:"SERVER_PORT"`
	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	SenderEmail        string `mapstructure:"SENDER_EMAIL"`
	SenderName         string `mapstructure:"SENDER_NAME"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8081")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("SENDER_NAME", "Auctioneer")
	viper.SetDefault("LOG_LEVEL", "info")

	// Bind envs explicitly so containers pick them up reliably
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("AWS_REGION")
	_ = viper.BindEnv("AWS_ACCESS_KEY_ID")
	_ = viper.BindEnv("AWS_SECRET_ACCESS_KEY")
	_ = viper.BindEnv("SENDER_EMAIL")
	_ = viper.BindEnv("SENDER_NAME")
	_ = viper.BindEnv("LOG_LEVEL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Error reading config file: %s", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
