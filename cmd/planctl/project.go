package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simaogato/vehicleplan-backend/internal/adapter/api"
	"github.com/simaogato/vehicleplan-backend/internal/app"
	"github.com/simaogato/vehicleplan-backend/internal/config"
	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

var goalFlags struct {
	method       string
	price        string
	downPayment  string
	saving       string
	emi          string
	maxTerm      int
	model        string
	year         int
	isNew        bool
	maxMileage   int
	manufacturer string
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project the purchase date for a goal",
	Example: `  planctl project --method cash --down-payment 20000 --saving 3000
  planctl project --method financing --price 100000 --emi 5000 --model "Mercedes S-Class" --year 2025 --new`,
	RunE: runProject,
}

var promotionsCmd = &cobra.Command{
	Use:   "promotions MODEL",
	Short: "Check whether a new vehicle model is on promotion",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromotions,
}

func init() {
	f := projectCmd.Flags()
	f.StringVar(&goalFlags.method, "method", "financing", "Payment method: cash or financing")
	f.StringVar(&goalFlags.price, "price", "0", "Vehicle price; 0 uses the matching listing")
	f.StringVar(&goalFlags.downPayment, "down-payment", "0", "Cash target (cash only)")
	f.StringVar(&goalFlags.saving, "saving", "0", "Monthly saving; 0 uses the transaction baseline when financing")
	f.StringVar(&goalFlags.emi, "emi", "0", "Maximum monthly installment (financing only)")
	f.IntVar(&goalFlags.maxTerm, "max-term", 0, "Maximum financing term in months; 0 means no limit")
	f.StringVar(&goalFlags.model, "model", "", "Vehicle model")
	f.IntVar(&goalFlags.year, "year", 0, "Model year")
	f.BoolVar(&goalFlags.isNew, "new", false, "Only new vehicles")
	f.IntVar(&goalFlags.maxMileage, "max-mileage", 0, "Maximum mileage")
	f.StringVar(&goalFlags.manufacturer, "manufacturer", "", "Depreciation class; configured default when empty")

	rootCmd.AddCommand(projectCmd, promotionsCmd)
}

// loadApp wires the planner against fixture data
func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	cfg.DataSource = config.DataSourceFixture
	cfg.FixturePath = flagData
	cfg.PromotionSchedule = ""

	logger := app.NewLogger(flagLogLevel)
	logger.SetOutput(os.Stderr)
	return app.New(ctx, cfg, logger)
}

func goalFromFlags() (domain.GoalInput, error) {
	method, err := domain.ParsePaymentMethod(goalFlags.method)
	if err != nil {
		return domain.GoalInput{}, err
	}

	goal := domain.GoalInput{
		PaymentMethod: method,
		Model:         goalFlags.model,
		ModelYear:     goalFlags.year,
		IsNew:         goalFlags.isNew,
		MaxMileage:    goalFlags.maxMileage,
		Manufacturer:  goalFlags.manufacturer,
	}

	for _, a := range []struct {
		flag string
		raw  string
		dst  *decimal.Decimal
	}{
		{"price", goalFlags.price, &goal.AssetBasePrice},
		{"down-payment", goalFlags.downPayment, &goal.DownPaymentTarget},
		{"saving", goalFlags.saving, &goal.MonthlySaving},
		{"emi", goalFlags.emi, &goal.MaxMonthlyPayment},
	} {
		v, err := decimal.NewFromString(a.raw)
		if err != nil {
			return domain.GoalInput{}, fmt.Errorf("--%s: %w", a.flag, err)
		}
		*a.dst = v
	}

	if goalFlags.maxTerm > 0 {
		term := goalFlags.maxTerm
		goal.MaxTermMonths = &term
	}
	return goal, nil
}

func runProject(cmd *cobra.Command, _ []string) error {
	goal, err := goalFromFlags()
	if err != nil {
		return err
	}

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Projection.Project(cmd.Context(), "", goal)
	if err != nil {
		return err
	}

	resp := api.NewProjectionResponse(result)
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), resp)
	}
	return printProjection(cmd.OutOrStdout(), resp)
}

func runPromotions(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	found, err := a.Projection.CheckPromotions(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	resp := api.PromotionResponse{Model: args[0], Promotion: found}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), resp)
	}
	if found {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: promotion available\n", resp.Model)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no promotion\n", resp.Model)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProjection(w io.Writer, r api.ProjectionResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Payment method\t%s\n", r.PaymentMethod)
	fmt.Fprintf(tw, "Purchase date\t%s (%d months)\n", r.EstimatedDate, r.MonthsToPurchase)
	fmt.Fprintf(tw, "Vehicle price\t%s\n", r.CarPrice.StringFixed(2))
	fmt.Fprintf(tw, "Down payment\t%s\n", r.DownPayment.StringFixed(2))
	if r.PayoffDate != "" {
		fmt.Fprintf(tw, "Monthly payment\t%s\n", r.MonthlyPayment.StringFixed(2))
		fmt.Fprintf(tw, "Payoff date\t%s (%d months)\n", r.PayoffDate, r.PaymentPeriod)
		fmt.Fprintf(tw, "Total cost\t%s\n", r.TotalCost.StringFixed(2))
		if r.ExceedsMaxTerm {
			fmt.Fprintf(tw, "Warning\tpayment period exceeds the maximum term\n")
		}
	}
	if r.Promotion {
		fmt.Fprintf(tw, "Promotion\tavailable\n")
	}

	fmt.Fprintf(tw, "\nDate\tSavings\n")
	for _, p := range r.TimeChart {
		fmt.Fprintf(tw, "%s\t%s\n", p.Date, p.Savings.StringFixed(2))
	}
	return tw.Flush()
}
