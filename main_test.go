package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/scorer/content"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestScoreCommandStdin(t *testing.T) {
	out, err := run(t, "Kediler evde otururlar. Kediler çok tatlıdır.", "score", "-k", "kedi")
	require.NoError(t, err)

	var result content.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 6, result.WordCount)
	assert.InDelta(t, 50.4, result.SEOScore, 0.0001)
	require.Len(t, result.KeywordDensity, 1)
	assert.Equal(t, 2, result.KeywordDensity[0].Count)
}

func TestScoreCommandFileWithProfile(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(doc, []byte("# Title\n\nOne short line. Another one."), 0644))
	profile := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("min_headings: 1\n"), 0644))

	out, err := run(t, "", "score", doc, "--profile", profile)
	require.NoError(t, err)

	var result content.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.HeadingCount)
	for _, s := range result.Suggestions {
		assert.NotEqual(t, content.CategoryHeading, s.Category)
	}
}

func TestScoreCommandHTML(t *testing.T) {
	out, err := run(t, "<h1>Solar</h1><h2>Panels</h2><p>Solar panels work. They save money.</p>", "score", "--html", "-k", "solar")
	require.NoError(t, err)

	var result content.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.HeadingCount)
	assert.Equal(t, 2, result.KeywordDensity[0].Count)
}

func TestScoreCommandErrors(t *testing.T) {
	_, err := run(t, "", "score", filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)

	dir := t.TempDir()
	profile := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("optimal_density_min: 5\noptimal_density_max: 1\n"), 0644))
	_, err = run(t, "text", "score", "--profile", profile)
	assert.ErrorIs(t, err, content.ErrInvalidProfile)
}

func TestTermsCommand(t *testing.T) {
	out, err := run(t, "Solar panels and solar batteries. The panels store solar power.", "terms", "-n", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"solar", "3"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"panels", "2"}, strings.Fields(lines[1]))
}

func TestScoreCommandKeywordWithComma(t *testing.T) {
	out, err := run(t, "Offices in New York, NY and Boston.", "score", "-k", "New York, NY", "-k", "Boston")
	require.NoError(t, err)

	var result content.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.KeywordDensity, 2)
	assert.Equal(t, "New York, NY", result.KeywordDensity[0].Keyword)
	assert.Equal(t, 1, result.KeywordDensity[0].Count)
	assert.Equal(t, "Boston", result.KeywordDensity[1].Keyword)
}
