package docs

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	tracker "github.com/etnz/tcgtracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	jsonTransaction = "json transaction"
	jsonItem        = "json item"
)

// readmeTopics returns the topics listed as "* topic: description" in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	require.NoError(t, err)
	defer file.Close()

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	require.NoError(t, scanner.Err())
	return topics
}

func TestTopics(t *testing.T) {
	listed := readmeTopics(t)
	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			_, err := GetTopic(topic)
			assert.NoError(t, err)
		})
	}

	// every file is listed in the readme.
	files, err := filepath.Glob("*.md")
	require.NoError(t, err)
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), ".md")
		if base == "readme" {
			continue
		}
		assert.Contains(t, listed, base, "%s is not listed in readme.md", file)
	}

	all, err := GetAllTopics()
	require.NoError(t, err)
	sorted := slices.Clone(listed)
	slices.Sort(sorted)
	assert.Equal(t, sorted, all)
}

func TestGetTopics(t *testing.T) {
	_, err := GetTopic("no-such-topic")
	assert.Error(t, err)

	content, err := GetTopic("*")
	require.NoError(t, err)
	for _, topic := range readmeTopics(t) {
		assert.Contains(t, content, "# "+Title(topic))
	}
	assert.NotContains(t, content, "Run `tcg topic <topic>`", "the readme is not a topic")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Transactions", Title("transactions"))
	assert.Equal(t, "Cost Basis", Title("cost-basis"))
	assert.Equal(t, "missing", Title("missing"))
}

// codeBlocks returns the content of the fenced blocks whose info string is info.
func codeBlocks(t *testing.T, source []byte, info string) []string {
	t.Helper()
	root := goldmark.DefaultParser().Parse(text.NewReader(source))
	var blocks []string
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		block, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || block.Info == nil {
			return ast.WalkContinue, nil
		}
		if strings.TrimSpace(string(block.Info.Segment.Value(source))) != info {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			b.Write(line.Value(source))
		}
		blocks = append(blocks, b.String())
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return blocks
}

// TestCodeBlocks checks that the JSON examples of the documentation decode
// and validate.
func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	require.NoError(t, err)

	var transactions, items int
	for _, file := range files {
		source, err := os.ReadFile(file)
		require.NoError(t, err)

		for i, block := range codeBlocks(t, source, jsonTransaction) {
			transactions++
			tx, err := tracker.DecodeTransaction([]byte(block))
			if !assert.NoError(t, err, "%s transaction #%d", file, i) {
				continue
			}
			assert.NoError(t, tx.Validate(), "%s transaction #%d", file, i)
		}
		for i, block := range codeBlocks(t, source, jsonItem) {
			items++
			var item tracker.Item
			if assert.NoError(t, json.Unmarshal([]byte(block), &item), "%s item #%d", file, i) {
				assert.NotEmpty(t, item.ProductID, "%s item #%d", file, i)
				assert.True(t, item.Quantity.IsPositive(), "%s item #%d", file, i)
			}
		}
	}
	assert.Equal(t, 4, transactions, "one example per transaction type")
	assert.Equal(t, 1, items)
}
