package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type MediaStreamConfig struct {
	PublicHost       string
	FrameBytes       int
	FrameInterval    time.Duration
	WriteTimeout     time.Duration
	InboundBufferMax int
	OpeningScript    string
}

func GetMediaStreamConfig() (*MediaStreamConfig, error) {
	publicHost := os.Getenv("MEDIA_STREAM_PUBLIC_HOST")
	if publicHost == "" {
		return nil, fmt.Errorf("MEDIA_STREAM_PUBLIC_HOST must be set")
	}

	frameBytes := 160
	if v := os.Getenv("MEDIA_STREAM_FRAME_BYTES"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("Failed to parse media stream frame bytes")
		}
		frameBytes = parsed
	}

	frameIntervalMs := 20
	if v := os.Getenv("MEDIA_STREAM_FRAME_INTERVAL_MS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("Failed to parse media stream frame interval")
		}
		frameIntervalMs = parsed
	}

	inboundBufferMax := 1 << 20
	if v := os.Getenv("MEDIA_STREAM_INBOUND_BUFFER_BYTES"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("Failed to parse media stream inbound buffer size")
		}
		inboundBufferMax = parsed
	}

	openingScript := os.Getenv("OPENING_SCRIPT")
	if openingScript == "" {
		openingScript = "Hello, thanks for calling. How can I help you today?"
	}

	return &MediaStreamConfig{
		PublicHost:       publicHost,
		FrameBytes:       frameBytes,
		FrameInterval:    time.Duration(frameIntervalMs) * time.Millisecond,
		WriteTimeout:     5 * time.Second,
		InboundBufferMax: inboundBufferMax,
		OpeningScript:    openingScript,
	}, nil
}
