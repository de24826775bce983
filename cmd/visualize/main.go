package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"agentviz/internal/batch"
	"agentviz/internal/util"
	"agentviz/pkg/conversation"
	"agentviz/pkg/logger"
	"agentviz/pkg/logger/console"
	"agentviz/pkg/message"
	"agentviz/pkg/visualizer"
)

func main() {
	var (
		dir          = flag.String("dir", "conversations", "directory containing per-message files")
		agent        = flag.String("agent", "", "agent name filter, exact match")
		files        = flag.String("files", "", "comma separated list of message files, instead of -dir")
		consolidated = flag.String("consolidated", "", "single consolidated JSON array file, instead of -dir")
		output       = flag.String("o", "", "output artifact file name")
		outputDir    = flag.String("output-dir", "visualizations", "directory for rendered artifacts")
		exportJSON   = flag.Bool("export-json", false, "also write the consolidated message array")
		noHTML       = flag.Bool("no-html", false, "skip the artifact, only export the consolidated array")
		all          = flag.Bool("all", false, "render every agent found in the source")
		schema       = flag.Bool("schema", false, "print the consolidated-array JSON schema and exit")
		s3Bucket     = flag.String("s3-bucket", "", "read message files from this S3 bucket")
		s3Prefix     = flag.String("s3-prefix", "", "key prefix within the S3 bucket")
		debug        = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	util.LoadEnv()

	consoleLogger := console.NewConsoleBackend(console.ConsoleBackendParams{
		Debug: *debug,
	})
	logger.Init(consoleLogger)

	if *schema {
		data, err := json.MarshalIndent(message.ConsolidatedSchema(), "", "  ")
		if err != nil {
			logger.Fatal("Failed to generate schema", "err", err)
		}
		fmt.Println(string(data))
		return
	}

	ctx := context.Background()
	viz := visualizer.New(*outputDir)

	src, err := buildSource(ctx, *dir, *files, *s3Bucket, *s3Prefix)
	if err != nil {
		logger.Fatal("Failed to set up message source", "err", err)
	}

	if *all {
		if *consolidated != "" {
			logger.Fatal("-all cannot be combined with -consolidated")
		}
		results, err := batch.RenderAll(ctx, src, viz, batch.Options{ExportJSON: *exportJSON})
		if err != nil {
			logger.Fatal("Batch render failed", "err", err)
		}
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: FAILED: %v\n", r.AgentName, r.Err)
				continue
			}
			fmt.Printf("%s: %s (%s)\n", r.AgentName, r.Path, r.Report.Summary())
		}
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	conv, err := loadConversation(ctx, src, *agent, *consolidated)
	if err != nil {
		logger.Fatal("Failed to consolidate conversation", "err", err)
	}
	reportFailures(conv.Report)

	if *exportJSON || *noHTML {
		path, err := viz.ExportConsolidated(conv, consolidatedName(*output))
		if err != nil {
			logger.Fatal("Failed to export consolidated array", "err", err)
		}
		fmt.Printf("Consolidated array: %s\n", path)
	}

	if *noHTML {
		return
	}

	res, err := viz.VisualizeConversation(conv, *output)
	if err != nil {
		logger.Fatal("Failed to render artifact", "err", err)
	}
	fmt.Printf("Artifact: %s (%s)\n", res.Path, res.Report.Summary())
}

func buildSource(ctx context.Context, dir, files, s3Bucket, s3Prefix string) (conversation.Source, error) {
	if s3Bucket != "" {
		client, err := conversation.NewS3Client(ctx)
		if err != nil {
			return nil, err
		}
		return conversation.NewS3Source(client, s3Bucket, s3Prefix), nil
	}
	if files != "" {
		return conversation.NewFileSource(strings.Split(files, ",")), nil
	}
	return conversation.NewDirSource(dir), nil
}

func loadConversation(ctx context.Context, src conversation.Source, agent, consolidated string) (*conversation.Conversation, error) {
	if consolidated != "" {
		raw, err := os.ReadFile(consolidated)
		if err != nil {
			return nil, err
		}
		name := agent
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(consolidated), ".json")
		}
		return conversation.LoadConsolidated(name, raw)
	}
	return conversation.Consolidate(ctx, src, agent)
}

func reportFailures(report conversation.Report) {
	for _, f := range report.Failed {
		fmt.Fprintf(os.Stderr, "skipped %s: %v\n", f.File, f.Err)
	}
}

// consolidatedName derives the export file name from an explicit artifact
// name, keeping the pair side by side in the output directory.
func consolidatedName(output string) string {
	if output == "" {
		return ""
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "-consolidated.json"
}
