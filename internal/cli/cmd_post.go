package cli

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"

	"github.com/kelexine/moltbook-cli/internal/api"
	"github.com/kelexine/moltbook-cli/internal/domain"
	"github.com/kelexine/moltbook-cli/internal/netutil"
)

const categoryPosts = "Posts"

func (r *runner) postCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:     "feed",
			Category: categoryPosts,
			Usage:    "Your personalized feed",
			Flags:    listFlags("hot", 25),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return showFeed(ctx, s, "/feed", "Your Feed", c, func() {
					s.p.Info("No posts in your feed yet.")
					s.p.Println("Try:")
					s.p.Println("- " + s.p.Command("moltbook global") + " to see all posts")
					s.p.Println("- " + s.p.Command("moltbook submolts") + " to find communities")
					s.p.Println("- " + s.p.Command(`moltbook search "your interest"`) + " to find topics")
				})
			}),
		},
		{
			Name:     "global",
			Category: categoryPosts,
			Usage:    "Posts from every submolt",
			Flags:    listFlags("hot", 25),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return showFeed(ctx, s, "/posts", "Global Feed", c, func() {
					s.p.Info("No posts found.")
				})
			}),
		},
		{
			Name:      "post",
			Category:  categoryPosts,
			Usage:     "Create a post",
			ArgsUsage: "[title] [submolt] [content] [url]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "post title"},
				&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "post body"},
				&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "link to share"},
				&cli.StringFlag{Name: "submolt", Aliases: []string{"s"}, Usage: "target submolt (default general)"},
			},
			Action: r.authed(createPost),
		},
		{
			Name:      "view-post",
			Category:  categoryPosts,
			Usage:     "Show a single post",
			ArgsUsage: argsUsage("post-id"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "post-id")
				if err != nil {
					return err
				}
				var v gjson.Result
				if err := s.client.Get(ctx, netutil.Path("posts", a[0]), &v); err != nil {
					return err
				}
				var post domain.Post
				if err := api.Decode(api.Unwrap(v, "post"), &post); err != nil {
					return err
				}
				s.p.Post(post, 0)
				return nil
			}),
		},
		{
			Name:      "delete-post",
			Category:  categoryPosts,
			Usage:     "Delete one of your posts",
			ArgsUsage: argsUsage("post-id"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return simpleAction(ctx, s, c, http.MethodDelete, "post deletion", "Post deleted successfully! 🦞", "posts")
			}),
		},
		{
			Name:      "upvote",
			Category:  categoryPosts,
			Usage:     "Upvote a post",
			ArgsUsage: argsUsage("post-id"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				a, err := positional(c, "post-id")
				if err != nil {
					return err
				}
				req := api.Request{Method: http.MethodPost, Path: netutil.Path("posts", a[0], "upvote"), Body: domain.Empty{}}
				v, done, err := s.act(ctx, req, "upvote", "Upvoted! 🦞")
				if err == nil && done {
					if hint := v.Get("suggestion"); hint.Type == gjson.String {
						s.p.Hint(hint.Str)
					}
				}
				return err
			}),
		},
		{
			Name:      "downvote",
			Category:  categoryPosts,
			Usage:     "Downvote a post",
			ArgsUsage: argsUsage("post-id"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return simpleAction(ctx, s, c, http.MethodPost, "downvote", "Downvoted", "posts", "downvote")
			}),
		},
		{
			Name:      "search",
			Category:  categoryPosts,
			Usage:     "Semantic search over posts and comments",
			ArgsUsage: argsUsage("query"),
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: "all", Usage: "posts, comments or all"},
				&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "maximum results"},
			},
			Action: r.authed(search),
		},
		{
			Name:      "comments",
			Category:  categoryPosts,
			Usage:     "List the comments on a post",
			ArgsUsage: argsUsage("post-id"),
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Value: "top", Usage: "top, new or controversial"},
			},
			Action: r.authed(listComments),
		},
		{
			Name:      "comment",
			Category:  categoryPosts,
			Usage:     "Comment on a post",
			ArgsUsage: "<post-id> [content]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "comment text"},
				&cli.StringFlag{Name: "parent", Aliases: []string{"p"}, Usage: "reply to this comment id"},
			},
			Action: r.authed(createComment),
		},
		{
			Name:      "upvote-comment",
			Category:  categoryPosts,
			Usage:     "Upvote a comment",
			ArgsUsage: argsUsage("comment-id"),
			Action: r.authed(func(ctx context.Context, s *session, c *cli.Context) error {
				return simpleAction(ctx, s, c, http.MethodPost, "comment upvote", "Comment upvoted! 🦞", "comments", "upvote")
			}),
		},
	}
}

func listFlags(sort string, limit int) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Value: sort, Usage: "hot, new, top or rising"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: limit, Usage: "maximum number of entries"},
	}
}

func showFeed(ctx context.Context, s *session, base, title string, c *cli.Context, empty func()) error {
	sort := c.String("sort")
	path := netutil.WithQuery(base, "sort", sort, "limit", strconv.Itoa(c.Int("limit")))
	var feed domain.FeedResponse
	if err := s.client.Get(ctx, path, &feed); err != nil {
		return err
	}
	s.p.Heading(title, sort)
	if len(feed.Posts) == 0 {
		empty()
		return nil
	}
	for i, post := range feed.Posts {
		s.p.Post(post, i+1)
	}
	return nil
}

// simpleAction performs method on /<prefix>/<id>[/suffix] for the single
// positional id argument.
func simpleAction(ctx context.Context, s *session, c *cli.Context, method, action, success, prefix string, suffix ...string) error {
	a, err := positional(c, "id")
	if err != nil {
		return err
	}
	req := api.Request{Method: method, Path: netutil.Path(append([]string{prefix, a[0]}, suffix...)...)}
	if method == http.MethodPost {
		req.Body = domain.Empty{}
	}
	_, _, err = s.act(ctx, req, action, success)
	return err
}

// postInput collects the fields of a new post. Flags win over positional
// arguments, and a URL given in place of the title or content is moved
// to the url field.
type postInput struct {
	title, submolt, content, url string
}

func parsePostArgs(c *cli.Context) (postInput, error) {
	if c.NArg() > 4 {
		return postInput{}, usageErrorf("post: unexpected argument %q", c.Args().Get(4))
	}
	in := postInput{
		title:   firstSet(c.String("title"), c.Args().Get(0)),
		submolt: firstSet(c.String("submolt"), c.Args().Get(1)),
		content: firstSet(c.String("content"), c.Args().Get(2)),
		url:     firstSet(c.String("url"), c.Args().Get(3)),
	}
	if in.url == "" {
		switch {
		case isURL(in.title):
			in.url, in.title = in.title, ""
		case isURL(in.content):
			in.url, in.content = in.content, ""
		}
	}
	return in, nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// isURL matches any "http" prefix, so "http://", "https://" and bare
// "http" links all count.
func isURL(s string) bool {
	return strings.HasPrefix(s, "http")
}

func createPost(ctx context.Context, s *session, c *cli.Context) error {
	in, err := parsePostArgs(c)
	if err != nil {
		return err
	}
	if c.NArg() == 0 && c.NumFlags() == 0 {
		if !s.prompt.interactive {
			return usageErrorf("post: missing --title")
		}
		if in, err = promptPost(s); err != nil {
			return err
		}
	}
	if in.submolt == "" {
		in.submolt = "general"
	}
	if in.title == "" {
		in.title = "Untitled Post"
	}

	req := api.Request{
		Method: http.MethodPost,
		Path:   "/posts",
		Body: domain.CreatePostRequest{
			SubmoltName: in.submolt,
			Title:       in.title,
			Content:     in.content,
			URL:         in.url,
		},
	}
	v, done, err := s.act(ctx, req, "post", "Post created successfully! 🦞")
	if err != nil || !done {
		return err
	}
	if id := api.Unwrap(v, "post").Get("id"); id.Exists() {
		s.p.Printf("Post ID: %s\n", s.p.Dim(id.String()))
	}
	return nil
}

func promptPost(s *session) (postInput, error) {
	var (
		in  postInput
		err error
	)
	if in.title, err = s.prompt.required("", "Title", "--title"); err != nil {
		return in, err
	}
	if in.submolt, err = s.prompt.promptDefault("Submolt", "general"); err != nil {
		return in, err
	}
	if in.content, err = s.prompt.optional("", "Content"); err != nil {
		return in, err
	}
	if in.url, err = s.prompt.optional("", "URL"); err != nil {
		return in, err
	}
	return in, nil
}

func search(ctx context.Context, s *session, c *cli.Context) error {
	a, err := positional(c, "query")
	if err != nil {
		return err
	}
	query := a[0]
	path := netutil.WithQuery("/search", "q", query, "type", c.String("type"), "limit", strconv.Itoa(c.Int("limit")))
	var v gjson.Result
	if err := s.client.Get(ctx, path, &v); err != nil {
		return err
	}
	results, err := api.DecodeList[domain.SearchResult](v, "results")
	if err != nil {
		return err
	}
	s.p.Heading("Search Results for '"+query+"'", strconv.Itoa(len(results))+" found")
	if len(results) == 0 {
		s.p.Info("No results found.")
		return nil
	}
	for i, res := range results {
		s.p.SearchResult(res, i+1)
	}
	return nil
}

func listComments(ctx context.Context, s *session, c *cli.Context) error {
	a, err := positional(c, "post-id")
	if err != nil {
		return err
	}
	path := netutil.WithQuery(netutil.Path("posts", a[0], "comments"), "sort", c.String("sort"))
	var v gjson.Result
	if err := s.client.Get(ctx, path, &v); err != nil {
		return err
	}
	var comments []gjson.Result
	switch {
	case v.Get("comments").IsArray():
		comments = v.Get("comments").Array()
	case v.IsArray():
		comments = v.Array()
	default:
		return &domain.APIError{Message: "Unexpected response format"}
	}
	s.p.Heading("Comments", strconv.Itoa(len(comments)))
	if len(comments) == 0 {
		s.p.Info("No comments yet. Be the first!")
		return nil
	}
	for i, cm := range comments {
		s.p.Comment(cm, i+1)
	}
	return nil
}

func createComment(ctx context.Context, s *session, c *cli.Context) error {
	if c.NArg() == 0 {
		return usageErrorf("comment: missing post-id")
	}
	if c.NArg() > 2 {
		return usageErrorf("comment: unexpected argument %q", c.Args().Get(2))
	}
	postID := c.Args().First()
	content, err := s.prompt.required(firstSet(c.String("content"), c.Args().Get(1)), "Comment", "--content")
	if err != nil {
		return err
	}
	req := api.Request{
		Method: http.MethodPost,
		Path:   netutil.Path("posts", postID, "comments"),
		Body:   domain.CreateCommentRequest{Content: content, ParentID: c.String("parent")},
	}
	_, _, err = s.act(ctx, req, "comment", "Comment posted!")
	return err
}
