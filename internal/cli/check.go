package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factbot/internal/analysis"
	"github.com/ppiankov/factbot/internal/logging"
	"github.com/ppiankov/factbot/internal/pipeline"
)

var (
	checkFile string
	checkKind string
)

var documentTypes = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text|url]",
	Short: "Fact-check one message from the command line",
	Long: `Check runs a single message through the same pipeline the bot uses and
prints the placeholder and the final reply.

Example:
  factbot check "The Eiffel Tower is in Berlin"
  factbot check https://example.com/article
  factbot check --file photo.jpg --kind image
  factbot check --file report.pdf --kind document`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkFile, "file", "", "local file to check")
	checkCmd.Flags().StringVar(&checkKind, "kind", "", "file kind: image, video, audio, document")
}

func runCheck(cmd *cobra.Command, args []string) error {
	content, err := checkContent(args, checkFile, checkKind)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if errs := cfg.ValidateBackends(); len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n%w", errors.Join(errs...))
	}

	logCfg := cfg.Log
	if !verbose {
		logCfg.Level = "ERROR"
	}
	logger, closer, err := logging.New(logCfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := os.MkdirAll(cfg.Storage.TempDir, 0o755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	b, err := newBackends(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	console := &consoleTransport{out: cmd.OutOrStdout()}
	dispatcher := pipeline.NewDispatcher(b.analyzer, b.verifier, console, pipeline.LimitsFromConfig(cfg), logger)

	dispatcher.Dispatch(cmd.Context(), pipeline.Message{
		UserID:  "cli",
		Ref:     pipeline.MessageRef{MessageID: 1},
		Content: content,
	})
	return nil
}

// checkContent builds the message content from the arguments
func checkContent(args []string, file, kind string) (pipeline.Content, error) {
	if file == "" {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return nil, errors.New("nothing to check: pass text, a URL, or --file")
		}
		return pipeline.TextContent{Text: text}, nil
	}

	info, err := os.Stat(file)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", file, err)
	}

	ref := pipeline.FileRef{ID: file, Size: info.Size(), Name: filepath.Base(file)}
	ext := strings.ToLower(filepath.Ext(file))

	switch kind {
	case "image":
		ref.MIMEType = "image/jpeg"
		return pipeline.ImageContent{File: ref}, nil
	case "video":
		ref.MIMEType = analysis.MediaTypeForPath(file)
		return pipeline.VideoContent{File: ref}, nil
	case "audio":
		ref.MIMEType = analysis.MediaTypeForPath(file)
		return pipeline.AudioContent{File: ref, Voice: ext == ".ogg"}, nil
	case "document":
		ref.MIMEType = documentTypes[ext]
		return pipeline.DocumentContent{File: ref}, nil
	default:
		return nil, fmt.Errorf("unknown --kind %q (image, video, audio, document)", kind)
	}
}

// consoleTransport prints replies and edits instead of sending them.
// Files are local paths.
type consoleTransport struct {
	mu   sync.Mutex
	out  io.Writer
	next int
}

func (c *consoleTransport) Reply(_ context.Context, to pipeline.MessageRef, text string) (pipeline.MessageRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	fmt.Fprintf(c.out, "%s\n\n", text)
	return pipeline.MessageRef{ChatID: to.ChatID, MessageID: to.MessageID + c.next}, nil
}

func (c *consoleTransport) Edit(_ context.Context, _ pipeline.MessageRef, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s\n", text)
	return nil
}

func (c *consoleTransport) GetFile(_ context.Context, fileID string) (pipeline.RemoteFile, error) {
	info, err := os.Stat(fileID)
	if err != nil {
		return pipeline.RemoteFile{}, fmt.Errorf("stat file: %w", err)
	}
	return pipeline.RemoteFile{ID: fileID, URL: fileID, Size: info.Size()}, nil
}

func (c *consoleTransport) Download(_ context.Context, file pipeline.RemoteFile, dest string) error {
	src, err := os.Open(file.URL)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copy file: %w", err)
	}
	return dst.Close()
}
