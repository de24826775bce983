package conversation

import (
	"context"
	"fmt"
	"path"
	"sort"

	"agentviz/pkg/logger"
	"agentviz/pkg/message"
)

type discoveredFile struct {
	key  string
	meta FileMeta
}

// Consolidate discovers message files in the source, orders them by message
// number, and loads them into one conversation.
//
// With an agent filter, only files whose embedded agent name matches
// exactly are included. Without one, all agents' files are merged and the
// first agent (in sort order) names the conversation. Files that fail to
// load or parse are collected in the report; the batch continues.
func Consolidate(ctx context.Context, src Source, agentFilter string) (*Conversation, error) {
	keys, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list message files: %w", err)
	}

	var report Report
	var files []discoveredFile
	for _, key := range keys {
		base := path.Base(key)
		if !IsMessageFile(base) {
			continue
		}
		meta, err := ParseFilename(base)
		if err != nil {
			// A name that fails to parse cannot be attributed to an agent,
			// so it never lands in a filtered conversation's report.
			if agentFilter != "" {
				logger.Warn("[Consolidate] Skipping malformed filename", "file", key, "err", err)
				continue
			}
			report.Failed = append(report.Failed, FileError{File: key, Err: err})
			continue
		}
		if agentFilter != "" && meta.Agent != agentFilter {
			continue
		}
		files = append(files, discoveredFile{key: key, meta: meta})
	}

	if len(files) == 0 {
		if agentFilter != "" {
			return nil, fmt.Errorf("%w for agent %q", ErrNoMessagesFound, agentFilter)
		}
		return nil, ErrNoMessagesFound
	}

	// Sort by message number, never by listing order or timestamp.
	sort.Slice(files, func(i, j int) bool {
		if files[i].meta.Number != files[j].meta.Number {
			return files[i].meta.Number < files[j].meta.Number
		}
		return files[i].meta.Agent < files[j].meta.Agent
	})

	// The same number for the same agent is a hard error. The same number
	// for a different agent is legal in an unfiltered multi-agent directory.
	for i := 1; i < len(files); i++ {
		prev, cur := files[i-1], files[i]
		if cur.meta.Number == prev.meta.Number && cur.meta.Agent == prev.meta.Agent {
			return nil, &DuplicateMessageError{
				Agent:  cur.meta.Agent,
				Number: cur.meta.Number,
				FileA:  prev.key,
				FileB:  cur.key,
			}
		}
	}

	logger.Info("[Consolidate] Loading message files", "count", len(files), "agent", agentFilter)

	agentName := agentFilter
	timestamp := ""
	var msgs []message.Message
	var sourceFiles []string

	for _, f := range files {
		data, err := src.Read(ctx, f.key)
		if err != nil {
			logger.Warn("[Consolidate] Failed to read message file", "file", f.key, "err", err)
			report.Failed = append(report.Failed, FileError{File: f.key, Err: err})
			continue
		}
		msg, err := message.ParseMessage(data)
		if err != nil {
			logger.Warn("[Consolidate] Failed to parse message file", "file", f.key, "err", err)
			report.Failed = append(report.Failed, FileError{File: f.key, Err: err})
			continue
		}
		msg.SequenceNumber = f.meta.Number
		warnOpaqueBlocks(f.key, msg)

		msgs = append(msgs, msg)
		sourceFiles = append(sourceFiles, f.key)
		report.Loaded = append(report.Loaded, f.key)

		if agentName == "" {
			agentName = f.meta.Agent
		}
		if timestamp == "" || f.meta.Timestamp < timestamp {
			timestamp = f.meta.Timestamp
		}
	}

	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: all %d discovered files failed to load", ErrEmptyConversation, len(files))
	}

	logger.Info("[Consolidate] Consolidated", "agent", agentName, "messages", len(msgs), "report", report.Summary())

	return &Conversation{
		AgentName:   agentName,
		Timestamp:   timestamp,
		Messages:    msgs,
		SourceFiles: sourceFiles,
		Report:      report,
	}, nil
}

// Agents returns the distinct agent names present in the source, in sorted
// order. Used by batch rendering to fan out one conversation per agent.
func Agents(ctx context.Context, src Source) ([]string, error) {
	keys, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list message files: %w", err)
	}

	seen := make(map[string]struct{})
	var agents []string
	for _, key := range keys {
		base := path.Base(key)
		if !IsMessageFile(base) {
			continue
		}
		meta, err := ParseFilename(base)
		if err != nil {
			continue
		}
		if _, ok := seen[meta.Agent]; ok {
			continue
		}
		seen[meta.Agent] = struct{}{}
		agents = append(agents, meta.Agent)
	}
	sort.Strings(agents)
	return agents, nil
}
