package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/vehicleplan-backend/internal/adapter/api"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		flagJSON = false
		goalFlags.method = "financing"
		goalFlags.price, goalFlags.downPayment, goalFlags.saving, goalFlags.emi = "0", "0", "0", "0"
		goalFlags.model, goalFlags.year, goalFlags.isNew, goalFlags.maxTerm = "", 0, false, 0
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestProjectCommand_Cash(t *testing.T) {
	out, err := execute(t, "project", "--method", "cash", "--down-payment", "20000", "--saving", "3000", "--json")
	require.NoError(t, err)

	var resp api.ProjectionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "CASH", resp.PaymentMethod)
	assert.Equal(t, 7, resp.MonthsToPurchase)
	assert.Len(t, resp.TimeChart, 8)
}

func TestProjectCommand_FinancedText(t *testing.T) {
	out, err := execute(t, "project", "--method", "financing", "--price", "100000", "--emi", "5000", "--max-term", "12")
	require.NoError(t, err)

	assert.Contains(t, out, "FINANCING")
	assert.Contains(t, out, "(8 months)")
	assert.Contains(t, out, "(17 months)")
	assert.Contains(t, out, "exceeds the maximum term")
}

func TestProjectCommand_InvalidInput(t *testing.T) {
	_, err := execute(t, "project", "--method", "cash", "--down-payment", "20000")
	assert.Error(t, err)

	_, err = execute(t, "project", "--method", "lease")
	assert.Error(t, err)

	_, err = execute(t, "project", "--emi", "five")
	assert.Error(t, err)
}

func TestPromotionsCommand(t *testing.T) {
	out, err := execute(t, "promotions", "Mercedes S-Class")
	require.NoError(t, err)
	assert.Contains(t, out, "no promotion")

	_, err = execute(t, "promotions")
	assert.Error(t, err)
}
