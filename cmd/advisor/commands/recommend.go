package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/engine"
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run one profile through the engine",
	Long: `Run an investment profile through the recommendation pipeline
and print the ranked results.

The profile is built from flags, or read whole from a JSON file
with --profile.

Example:
  go run ./cmd/advisor recommend --risk low --return 5 --sectors tech --budget 5000
  go run ./cmd/advisor recommend --profile profile.json --top 10 --json`,
	RunE: runRecommend,
}

var (
	recProfilePath string
	recRisk        string
	recReturn      float64
	recYears       int
	recSectors     []string
	recBudget      float64
	recDividend    string
	recEthical     []string
	recTypes       []string
	recTopN        int
	recJSON        bool
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVar(&recProfilePath, "profile", "", "path to a profile JSON file (overrides other flags)")
	recommendCmd.Flags().StringVar(&recRisk, "risk", "medium", "risk level (low|medium|high)")
	recommendCmd.Flags().Float64Var(&recReturn, "return", 5, "desired annual return, percent")
	recommendCmd.Flags().IntVar(&recYears, "years", 5, "investment duration in years")
	recommendCmd.Flags().StringSliceVar(&recSectors, "sectors", nil, "sector tags, e.g. tech,healthcare")
	recommendCmd.Flags().Float64Var(&recBudget, "budget", 5000, "budget, minimum 1000")
	recommendCmd.Flags().StringVar(&recDividend, "dividend", "none", "dividend priority (none|some|high)")
	recommendCmd.Flags().StringSliceVar(&recEthical, "ethical", nil, "ethical tags (esg,green,social,governance)")
	recommendCmd.Flags().StringSliceVar(&recTypes, "types", nil, "instrument types (stocks,etf,mutual_funds,bonds)")
	recommendCmd.Flags().IntVar(&recTopN, "top", 0, "number of results (default 5)")
	recommendCmd.Flags().BoolVar(&recJSON, "json", false, "print results as JSON")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	profile, err := buildProfile()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	start := time.Now()
	ranked, err := a.engine.Recommend(context.Background(), profile, recTopN)
	if err != nil {
		if errors.Is(err, engine.ErrNoMatches) {
			fmt.Println("No instruments match the profile. Relax the criteria and retry.")
			return nil
		}
		return err
	}

	if recJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	fmt.Printf("Top %d recommendations (%.1fs):\n\n", len(ranked), time.Since(start).Seconds())
	fmt.Printf("%-4s %-8s %-30s %-12s %7s %7s %8s %7s\n",
		"#", "SYMBOL", "NAME", "SECTOR", "SCORE", "BETA", "RET%", "DIV%")
	for _, r := range ranked {
		name := r.Metrics.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Printf("%-4d %-8s %-30s %-12s %7.3f %7.2f %8.2f %7.2f\n",
			r.Rank, r.Metrics.Symbol, name, r.Metrics.Sector,
			r.Score, r.Metrics.Beta, r.Metrics.HistReturnOrZero(), r.Metrics.DividendYield)
	}

	return nil
}

// buildProfile assembles the profile from the JSON file or the flags.
func buildProfile() (contracts.InvestmentProfile, error) {
	var profile contracts.InvestmentProfile

	if recProfilePath != "" {
		data, err := os.ReadFile(recProfilePath)
		if err != nil {
			return profile, fmt.Errorf("read profile: %w", err)
		}
		if err := json.Unmarshal(data, &profile); err != nil {
			return profile, fmt.Errorf("parse profile: %w", err)
		}
		return profile, nil
	}

	profile = contracts.InvestmentProfile{
		RiskLevel:        contracts.RiskLevel(recRisk),
		DesiredReturn:    recReturn,
		DurationYears:    recYears,
		Sectors:          recSectors,
		Budget:           recBudget,
		DividendPriority: contracts.DividendPriority(recDividend),
	}
	for _, tag := range recEthical {
		profile.Ethical = append(profile.Ethical, contracts.EthicalTag(tag))
	}
	for _, it := range recTypes {
		profile.InvestmentTypes = append(profile.InvestmentTypes, contracts.InvestmentType(it))
	}

	return profile, nil
}
