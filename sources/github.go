package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/digest"
)

// GitHub defaults.
const (
	GitHubAPIURL        = "https://api.github.com"
	GitHubRawURL        = "https://raw.githubusercontent.com"
	DefaultSampleLimit  = 5
	DefaultSnippetChars = 8000
	DefaultSampleDelay  = 200 * time.Millisecond
	TreeBudget          = 20000
	ReadmeBudget        = 20000
	SamplesBudget       = 30000
)

// Section names produced by the GitHub adapter.
const (
	SectionFileTree = "File Tree"
	SectionReadme   = "README"
	SectionSamples  = "Sample Files"
)

// DefaultSampleExtensions are the file types sampled from a repository.
var DefaultSampleExtensions = []string{"js", "ts", "py", "md"}

var ownerRepoRe = regexp.MustCompile(`(?i)github\.com/([^/?#]+)/([^/?#]+)(?:$|[/?#])`)

// ParseRepoURL returns the owner and repository named by a github.com URL.
func ParseRepoURL(rawURL string) (owner, repo string, err error) {
	m := ownerRepoRe.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return "", "", digest.Errorf(digest.EIDENTIFIER, "invalid GitHub repo URL %q", rawURL)
	}
	repo = strings.TrimSuffix(m[2], ".git")
	if m[1] == "" || repo == "" {
		return "", "", digest.Errorf(digest.EIDENTIFIER, "invalid GitHub repo URL %q", rawURL)
	}
	return m[1], repo, nil
}

// Ensure GitHub implements digest.Adapter at compile time.
var _ digest.Adapter = (*GitHub)(nil)

// GitHub summarizes a repository from its metadata, file tree, README and a
// few sampled files. Branch, commit and tree lookups are sequential and
// fatal; everything after them is best-effort.
type GitHub struct {
	// API is used for REST calls and may carry a token.
	API digest.ResourceFetcher
	// Raw fetches file contents anonymously.
	Raw digest.ResourceFetcher

	APIBaseURL string
	RawBaseURL string

	SampleLimit      int
	SampleExtensions []string
	SnippetChars     int
	SampleDelay      time.Duration
	Timeout          time.Duration

	Logger *slog.Logger
}

// NewGitHub returns a GitHub adapter with default endpoints and sampling.
func NewGitHub(api, raw digest.ResourceFetcher) *GitHub {
	return &GitHub{
		API:              api,
		Raw:              raw,
		APIBaseURL:       GitHubAPIURL,
		RawBaseURL:       GitHubRawURL,
		SampleLimit:      DefaultSampleLimit,
		SampleExtensions: DefaultSampleExtensions,
		SnippetChars:     DefaultSnippetChars,
		SampleDelay:      DefaultSampleDelay,
		Timeout:          DefaultTimeout,
	}
}

// Kind returns digest.KindRepo.
func (g *GitHub) Kind() digest.SourceKind { return digest.KindRepo }

type repoMeta struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	Stars         int    `json:"stargazers_count"`
	Forks         int    `json:"forks_count"`
	Language      string `json:"language"`
	DefaultBranch string `json:"default_branch"`
	HTMLURL       string `json:"html_url"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type gitRef struct {
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

type gitCommit struct {
	Tree struct {
		SHA string `json:"sha"`
	} `json:"tree"`
}

// TreeEntry is one path in a recursive git tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

type gitTree struct {
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// Sample is a clamped excerpt of one repository file.
type Sample struct {
	Path    string
	Snippet string
}

// Extract resolves the repository and assembles its sections.
func (g *GitHub) Extract(ctx context.Context, req *digest.ExtractionRequest) (*digest.ExtractedContent, error) {
	owner, repo, err := ParseRepoURL(req.SourceURL)
	if err != nil {
		return nil, err
	}
	logger := discard(g.Logger).With("owner", owner, "repo", repo)

	meta, tree, err := g.resolve(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	if tree.Truncated {
		logger.Warn("tree listing truncated by API")
	}
	branch := meta.DefaultBranch

	readme, err := digest.Chain(ctx, logger, digest.NonEmpty,
		g.rawTier(owner, repo, branch, "README.md"),
		g.rawTier(owner, repo, branch, "README"),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		readme = ""
	}

	samples, err := g.sample(ctx, logger, owner, repo, branch, tree.Tree)
	if err != nil {
		return nil, err
	}

	name := meta.FullName
	if name == "" {
		name = owner + "/" + repo
	}
	author := meta.Owner.Login
	if author == "" {
		author = owner
	}

	return &digest.ExtractedContent{
		SourceID: digest.SourceKey(owner, repo),
		Author:   author,
		Title:    name,
		Body:     meta.Description,
		Metadata: []digest.Field{
			field("Name", name),
			field("Description", meta.Description),
			field("Stars", strconv.Itoa(meta.Stars)),
			field("Forks", strconv.Itoa(meta.Forks)),
			field("Language", meta.Language),
			field("Branch", branch),
		},
		Sections: []digest.Section{
			{Name: SectionFileTree, Text: FormatTree(tree.Tree), Budget: TreeBudget},
			{Name: SectionReadme, Text: readme, Budget: ReadmeBudget},
			{Name: SectionSamples, Text: FormatSamples(samples), Budget: SamplesBudget},
		},
	}, nil
}

// resolve walks metadata, branch ref, commit and tree in order. Any failure
// is an ERESOLUTION since no other path leads to a file tree.
func (g *GitHub) resolve(ctx context.Context, owner, repo string) (*repoMeta, *gitTree, error) {
	base := fmt.Sprintf("%s/repos/%s/%s", strings.TrimRight(g.APIBaseURL, "/"), url.PathEscape(owner), url.PathEscape(repo))

	var meta repoMeta
	if err := g.api(ctx, base, &meta); err != nil {
		return nil, nil, resolutionError(ctx, "repository metadata", owner, repo, err)
	}
	if meta.DefaultBranch == "" {
		return nil, nil, digest.Errorf(digest.ERESOLUTION, "%s/%s: default branch missing", owner, repo)
	}

	var ref gitRef
	if err := g.api(ctx, base+"/git/refs/heads/"+url.PathEscape(meta.DefaultBranch), &ref); err != nil {
		return nil, nil, resolutionError(ctx, "branch "+meta.DefaultBranch, owner, repo, err)
	}
	if ref.Object.SHA == "" {
		return nil, nil, digest.Errorf(digest.ERESOLUTION, "%s/%s: branch %s has no commit", owner, repo, meta.DefaultBranch)
	}

	var commit gitCommit
	if err := g.api(ctx, base+"/git/commits/"+ref.Object.SHA, &commit); err != nil {
		return nil, nil, resolutionError(ctx, "commit "+ref.Object.SHA, owner, repo, err)
	}
	if commit.Tree.SHA == "" {
		return nil, nil, digest.Errorf(digest.ERESOLUTION, "%s/%s: commit %s has no tree", owner, repo, ref.Object.SHA)
	}

	var tree gitTree
	if err := g.api(ctx, base+"/git/trees/"+commit.Tree.SHA+"?recursive=1", &tree); err != nil {
		return nil, nil, resolutionError(ctx, "tree "+commit.Tree.SHA, owner, repo, err)
	}
	return &meta, &tree, nil
}

func (g *GitHub) api(ctx context.Context, u string, v any) error {
	return digest.GetJSON(ctx, g.API, digest.Request{
		URL:     u,
		Headers: map[string]string{"Accept": "application/vnd.github+json"},
		Timeout: g.Timeout,
	}, v)
}

func resolutionError(ctx context.Context, step, owner, repo string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return digest.Errorf(digest.ERESOLUTION, "%s/%s: resolving %s: %s", owner, repo, step, digest.ErrorMessage(err))
}

// rawURL escapes each path segment. Branch and file names may hold spaces,
// '#' or '?'.
func (g *GitHub) rawURL(owner, repo, branch, filePath string) string {
	segs := []string{strings.TrimRight(g.RawBaseURL, "/"), url.PathEscape(owner), url.PathEscape(repo)}
	for _, s := range strings.Split(branch+"/"+filePath, "/") {
		segs = append(segs, url.PathEscape(s))
	}
	return strings.Join(segs, "/")
}

func (g *GitHub) rawTier(owner, repo, branch, filePath string) digest.Tier[string] {
	return digest.Tier[string]{
		Name: "raw " + filePath,
		Try: func(ctx context.Context) (string, error) {
			return digest.GetText(ctx, g.Raw, digest.Request{URL: g.rawURL(owner, repo, branch, filePath), Timeout: g.Timeout})
		},
	}
}

// sample fetches the first SampleLimit matching blobs one at a time with
// SampleDelay between requests. A failed fetch leaves an empty snippet.
func (g *GitHub) sample(ctx context.Context, logger *slog.Logger, owner, repo, branch string, entries []TreeEntry) ([]Sample, error) {
	picked := PickSamples(entries, g.SampleExtensions, g.SampleLimit)

	samples := make([]Sample, 0, len(picked))
	for i, p := range picked {
		if i > 0 {
			if err := digest.Sleep(ctx, g.SampleDelay); err != nil {
				return nil, err
			}
		}
		text, err := digest.GetText(ctx, g.Raw, digest.Request{URL: g.rawURL(owner, repo, branch, p), Timeout: g.Timeout})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Debug("sample unavailable", "path", p, "err", err)
			text = ""
		}
		samples = append(samples, Sample{Path: p, Snippet: digest.Clamp(text, g.SnippetChars)})
	}
	return samples, nil
}

// PickSamples returns the paths of the first limit blobs whose extension is
// in exts, in listing order.
func PickSamples(entries []TreeEntry, exts []string, limit int) []string {
	var out []string
	for _, e := range entries {
		if len(out) >= limit {
			break
		}
		if e.Type != "blob" {
			continue
		}
		ext := strings.TrimPrefix(path.Ext(e.Path), ".")
		if ext != "" && slices.Contains(exts, ext) {
			out = append(out, e.Path)
		}
	}
	return out
}

// FormatTree lists entries sorted by path, indented two spaces per level.
// Directories end in "/".
func FormatTree(entries []TreeEntry) string {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b TreeEntry) int { return strings.Compare(a.Path, b.Path) })

	lines := make([]string, 0, len(sorted))
	for _, e := range sorted {
		line := strings.Repeat("  ", strings.Count(e.Path, "/")) + e.Path
		if e.Type == "tree" {
			line += "/"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// FormatSamples joins samples as "---\n# path\nsnippet" blocks.
func FormatSamples(samples []Sample) string {
	blocks := make([]string, 0, len(samples))
	for _, s := range samples {
		blocks = append(blocks, fmt.Sprintf("---\n# %s\n%s", s.Path, s.Snippet))
	}
	return strings.Join(blocks, "\n\n")
}
