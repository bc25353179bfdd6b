package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCreateLogger(t *testing.T) {
	level := "info"
	log := NewLogrus(level, os.Stdout)

	assert.Equal(t, log.level, level)
}

func TestGetLogger(t *testing.T) {
	log := NewLogrus("debug", os.Stdout)
	logger := log.Get("RuleManager")
	assert.Equal(t, logger.Logger.Out, os.Stdout)
	assert.Equal(t, logrus.DebugLevel, logger.Logger.GetLevel())
	assert.Equal(t, "RuleManager", logger.Data["Context"])
}

func TestGetLoggerWithInvalidLevelFallsBackToInfo(t *testing.T) {
	logger := NewLogrus("loud", os.Stdout).Get("Testing")
	assert.Equal(t, logrus.InfoLevel, logger.Logger.GetLevel())
}

func TestGetLoggerWithJSON(t *testing.T) {
	var output bytes.Buffer
	logger := NewLogrus("info", &output).WithJSON().Get("Codec")
	logger.Info("frame encoded")
	assert.Contains(t, output.String(), `"Context":"Codec"`)
	assert.Contains(t, output.String(), `"msg":"frame encoded"`)
}
