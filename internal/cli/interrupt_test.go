package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{name: "with custom writer", writer: &bytes.Buffer{}},
		{name: "with nil writer", writer: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			require.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestInterruptCancelsContext(t *testing.T) {
	var output bytes.Buffer
	handler := NewInterruptHandler(&output)

	parent, stop := context.WithCancel(context.Background())
	defer stop()
	ctx, stopHandler := handler.HandleInterrupts(parent, "Export")
	defer stopHandler()

	select {
	case <-ctx.Done():
		t.Fatal("context canceled before interrupt")
	default:
	}

	handler.interrupt()

	<-ctx.Done()
	assert.True(t, handler.WasInterrupted())
	assert.ErrorIs(t, context.Cause(ctx), ErrInterrupted)
	assert.Contains(t, output.String(), "Export interrupted!")
}

func TestInterruptMessageShownOnce(t *testing.T) {
	var output bytes.Buffer
	handler := NewInterruptHandler(&output)
	_, stop := handler.HandleInterrupts(context.Background(), "Export")
	defer stop()

	handler.interrupt()
	handler.interrupt()

	assert.Equal(t, 1, strings.Count(output.String(), "interrupted!"))
}

func TestParentCancelIsNotAnInterrupt(t *testing.T) {
	handler := NewInterruptHandler(&bytes.Buffer{})
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := handler.HandleInterrupts(parent, "Load")
	defer stop()

	cancel()
	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
	assert.NotErrorIs(t, context.Cause(ctx), ErrInterrupted)
}

func TestStopReleasesContext(t *testing.T) {
	handler := NewInterruptHandler(&bytes.Buffer{})
	ctx, stop := handler.HandleInterrupts(context.Background(), "Export")

	stop()
	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
	assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
}

func TestShowInterruptMessage_DefaultOperation(t *testing.T) {
	var output bytes.Buffer
	handler := &InterruptHandler{writer: &output}

	handler.notify()

	assert.Contains(t, output.String(), "Operation interrupted!")
}
