package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/liliang-cn/vecturakit"
	"github.com/liliang-cn/vecturakit/storage/filestore"
)

var (
	dbDir  string
	dbName string
	dim    int
)

var rootCmd = &cobra.Command{
	Use:   "vecturakit",
	Short: "CLI tool for a hybrid vector+BM25 document store",
	Long:  `A command-line interface for managing documents in a vecturakit database backed by the filestore provider.`,
}

func openDB(ctx context.Context) (*vecturakit.DB, error) {
	store, err := filestore.Open(dbDir, dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	cfg := vecturakit.DefaultConfig(dbName)
	cfg.Directory = dbDir
	cfg.Dimension = dim

	db, err := vecturakit.Open(ctx, cfg, nil, store)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	vec := make([]float32, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", part, err)
		}
		vec = append(vec, float32(val))
	}
	return vec, nil
}

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a document given its text and a pre-computed embedding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vectorStr, _ := cmd.Flags().GetString("vector")
		if vectorStr == "" {
			return fmt.Errorf("--vector is required (vecturakit's CLI carries no embedder)")
		}
		vec, err := parseVector(vectorStr)
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := db.AddDocumentWithVector(ctx, args[0], vec)
		if err != nil {
			return fmt.Errorf("failed to add document: %w", err)
		}

		fmt.Println(id)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query-text>",
	Short: "Search by --vector (cosine only); text queries fail, as this CLI has no embedder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		numResults, _ := cmd.Flags().GetInt("num-results")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		hasThreshold := cmd.Flags().Changed("threshold")
		vectorStr, _ := cmd.Flags().GetString("vector")
		outputJSON, _ := cmd.Flags().GetBool("json")

		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		var opts []vecturakit.SearchOption
		if numResults > 0 {
			opts = append(opts, vecturakit.WithNumResults(numResults))
		}
		if hasThreshold {
			opts = append(opts, vecturakit.WithThreshold(threshold))
		}

		var results []vecturakit.SearchResult
		if vectorStr != "" {
			vec, err := parseVector(vectorStr)
			if err != nil {
				return err
			}
			results, err = db.SearchVector(ctx, vec, opts...)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
		} else {
			results, err = db.Search(ctx, args[0], opts...)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
		}

		if outputJSON {
			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		for _, r := range results {
			fmt.Printf("%s\t%.4f\t%s\n", r.ID, r.Score, r.Text)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more documents by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]uuid.UUID, 0, len(args))
		for _, a := range args {
			id, err := uuid.Parse(a)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", a, err)
			}
			ids = append(ids, id)
		}

		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteDocuments(ctx, ids); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		fmt.Printf("deleted %d document(s)\n", len(ids))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print document count and effective memory strategy",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(ctx)
		if err != nil {
			return fmt.Errorf("stats failed: %w", err)
		}
		fmt.Printf("documents: %d\nmode: %s\navg_doc_length: %.2f\nhydrated: %d\n",
			stats.DocumentCount, stats.Mode, stats.AvgDocLength, stats.HydratedCount)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every document in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Reset(ctx); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		fmt.Println("database reset")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDir, "dir", ".", "database directory")
	rootCmd.PersistentFlags().StringVar(&dbName, "name", "vecturakit", "database name")
	rootCmd.PersistentFlags().IntVar(&dim, "dim", 0, "embedding dimension (0 = auto-detect)")

	addCmd.Flags().String("vector", "", "comma-separated embedding components")

	searchCmd.Flags().String("vector", "", "comma-separated embedding components for a vector-only search")
	searchCmd.Flags().Int("num-results", 0, "number of results to return (0 = use configured default)")
	searchCmd.Flags().Float64("threshold", 0, "minimum fused score")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(addCmd, searchCmd, deleteCmd, statsCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
