package docs

import (
	"bufio"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	consoleCheck = "console check"
	bashCheck    = "bash check"
)

// portfolio is served to the pdash commands run by the documentation.
const portfolio = `{
  "ts": 1700000000000,
  "stocks": [
    {"ticker":"ABC","exchange":"NSE","purchasePrice":100,"quantity":10,"sector":"Tech","cmp":150,"pe":null,"latestEarnings":null,"investment":1000,"presentValue":1500,"gainLoss":500,"portfolioPercent":50}
  ],
  "sectorSummary": [
    {"sector":"Tech","totalInvestment":1000,"totalPresentValue":1500,"totalGainLoss":500,"items":[
      {"ticker":"ABC","exchange":"NSE","purchasePrice":100,"quantity":10,"sector":"Tech","cmp":150,"pe":null,"latestEarnings":null,"investment":1000,"presentValue":1500,"gainLoss":500,"portfolioPercent":50}
    ]}
  ]
}`

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every topic is listed.
	file, err := os.Open(Index + ".md")
	if err != nil {
		t.Fatalf("failed to open %s.md: %v", Index, err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning %s.md: %v", Index, err)
	}

	for _, topic := range listed {
		if _, err := Topic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := AllTopics()
	if err != nil {
		t.Fatalf("AllTopics() unexpected error: %v", err)
	}
	for _, topic := range all {
		found := false
		for _, l := range listed {
			if l == topic {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("topic %q is not listed in %s.md", topic, Index)
		}
	}
}

func TestTopics_Star(t *testing.T) {
	all, err := AllTopics()
	if err != nil {
		t.Fatalf("AllTopics() unexpected error: %v", err)
	}
	got, err := Topics("*")
	if err != nil {
		t.Fatalf("Topics(*) unexpected error: %v", err)
	}
	for _, topic := range all {
		content, _ := Topic(topic)
		if !strings.Contains(got, content) {
			t.Errorf("Topics(*) does not contain topic %q", topic)
		}
	}
	if _, err := Topics("no-such-topic"); err == nil {
		t.Errorf("Topics(no-such-topic): want an error")
	}
}

func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			runBlocks(t, file)
		})
	}
}

// HELPER

// Block represents a fenced code block in the markdown file.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

// buildPdash builds the pdash executable in dir and returns its path.
func buildPdash(t *testing.T, dir string) string {
	t.Helper()
	output := filepath.Join(dir, "pdash")
	buildCmd := exec.Command("go", "build", "-o", output, "../pdash/")
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		t.Fatalf("failed to build pdash command: %v", err)
	}
	return output
}

// parseMarkdown parses a markdown file and returns its executable blocks.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		lang := string(fcb.Info.Segment.Value(content))
		switch lang {
		case bashCheck, bashSetup, bashRun, consoleCheck:
		default:
			return ast.WalkContinue, nil
		}
		var blockContent strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			blockContent.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Type:    lang,
			Content: blockContent.String(),
			File:    file,
			Line:    lineNumber(content, fcb.Info.Segment.Start),
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// lineNumber computes the line number of an offset in source.
func lineNumber(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}

// blockRunner defines all that is need to run a test for a block
type blockRunner struct {
	env            []string // env use to execute commands
	previousOutput string
	tmpFolder      string
}

func (r *blockRunner) runBlock(t *testing.T, block *Block) {
	t.Helper()

	if block.Type == consoleCheck {
		want := strings.TrimSpace(block.Content)
		got := strings.TrimSpace(r.previousOutput)
		if want != got {
			t.Errorf("%s:%d: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q\n", block.File, block.Line, got, want, got, want)
		}
		return
	}
	// A setup starts a new scenario in a new folder.
	if block.Type == bashSetup {
		r.tmpFolder = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+block.Content)
	cmd.Dir = r.tmpFolder
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()

	if block.Type == bashRun {
		r.previousOutput = string(output)
	}

	if err != nil {
		switch block.Type {
		case bashSetup, bashRun:
			t.Fatalf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
		case bashCheck:
			t.Errorf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
		}
	}
}

// runBlocks executes the scenarios of a markdown file against a local
// portfolio service.
func runBlocks(t *testing.T, file string) {
	t.Helper()
	blocks := parseMarkdown(t, file)
	if len(blocks) == 0 {
		return
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(portfolio))
	}))
	defer srv.Close()

	pdashDir := filepath.Dir(buildPdash(t, t.TempDir()))
	var env []string
	for _, kv := range os.Environ() {
		// the documentation describes the defaults.
		if !strings.HasPrefix(kv, "PDASH_") && !strings.HasPrefix(kv, "PATH=") && !strings.HasPrefix(kv, "TZ=") {
			env = append(env, kv)
		}
	}
	env = append(env,
		fmt.Sprintf("PATH=%s%c%s", pdashDir, os.PathListSeparator, os.Getenv("PATH")),
		"PDASH_URL="+srv.URL,
		"TZ=UTC",
	)

	r := blockRunner{
		env:       env,
		tmpFolder: t.TempDir(),
	}
	for _, block := range blocks {
		r.runBlock(t, block)
	}
}
