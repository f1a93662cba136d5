package config

import (
	"fmt"
	"os"
	"strconv"
)

type DynamoConfig struct {
	TableName  string
	TtlMinutes int
}

func GetDynamoConfig() (*DynamoConfig, error) {
	tableName := os.Getenv("CALL_RECORDS_TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("CALL_RECORDS_TABLE_NAME must be set")
	}

	ttlMinutes := 60 * 24 * 30
	if ttl := os.Getenv("CALL_RECORDS_TTL_MINUTES"); ttl != "" {
		parsed, err := strconv.Atoi(ttl)
		if err != nil {
			return nil, fmt.Errorf("Failed to parse call records ttl minutes")
		}
		ttlMinutes = parsed
	}

	return &DynamoConfig{
		TableName:  tableName,
		TtlMinutes: ttlMinutes,
	}, nil
}
