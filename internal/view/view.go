package view

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"

	"github.com/Ansh-jadav/Movie-Review-system/internal/domain"
)

// maxEmbeds caps how many players render per category tab. Embedding dozens
// of iframes stalls the page.
const maxEmbeds = 6

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="450" viewBox="0 0 300 450"><rect width="300" height="450" fill="#23232e"/><text x="150" y="225" fill="#8888a0" font-family="sans-serif" font-size="22" text-anchor="middle">No Poster</text></svg>`

// SafePoster returns a usable image source: the upstream poster URL when one
// exists, otherwise an inline SVG placeholder so no request 404s.
func SafePoster(poster string) string {
	if poster == "" || poster == "N/A" {
		return "data:image/svg+xml," + url.PathEscape(placeholderSVG)
	}
	return poster
}

// FormatField normalizes an upstream text field for display. The upstream
// writes the literal string "N/A" for unknown values.
func FormatField(value string) string {
	if value == "" || value == "N/A" {
		return "—"
	}
	return value
}

// CategoryLabel maps a video category to its tab caption.
func CategoryLabel(category string) string {
	if category == "Clip" {
		return "Clips"
	}
	return category
}

// Page renders the full document shell. Everything below the search bar is
// swapped in as fragments.
func Page() gomponents.Node {
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
				html.TitleEl(gomponents.Text("Critic's Cut")),
				html.Script(html.Src("https://unpkg.com/htmx.org@1.9.12")),
				StyleEl(),
			),
			html.Body(
				html.Header(
					html.Class("site-header"),
					html.H1(gomponents.Text("Critic's Cut")),
					html.P(html.Class("tagline"), gomponents.Text("Find a movie. Watch the extras. Have an opinion.")),
				),
				html.Main(
					SearchForm(),
					SkeletonGrid(),
					html.Div(
						html.ID("results"),
						hx.Get("/fragments/suggestions"),
						hx.Trigger("load"),
						hx.Swap("innerHTML"),
					),
					html.Div(html.ID("detail")),
				),
			),
		),
	)
}

// SearchForm renders the search input. Typing three or more characters
// triggers a debounced search; submitting the form searches unconditionally.
func SearchForm() gomponents.Node {
	return html.Form(
		html.ID("searchForm"),
		hx.Get("/fragments/results"),
		hx.Target("#results"),
		hx.Swap("innerHTML"),
		hx.Indicator("#skeleton"),
		html.Input(
			html.Type("search"),
			html.Name("q"),
			html.ID("searchInput"),
			html.Placeholder("Search for a movie..."),
			html.AutoComplete("off"),
			hx.Get("/fragments/results"),
			hx.Trigger("input[target.value.length>=3] changed delay:400ms"),
			hx.Target("#results"),
			hx.Swap("innerHTML"),
			hx.Indicator("#skeleton"),
		),
		html.Button(html.Type("submit"), gomponents.Text("Search")),
	)
}

// SkeletonGrid renders the placeholder cards shown while a search request is
// in flight. htmx toggles visibility through the htmx-indicator class.
func SkeletonGrid() gomponents.Node {
	cards := make([]gomponents.Node, 0, 8)
	for i := 0; i < 8; i++ {
		cards = append(cards, html.Div(
			html.Class("card skeleton"),
			html.Div(html.Class("skeleton-poster")),
			html.Div(html.Class("skeleton-line")),
			html.Div(html.Class("skeleton-line short")),
		))
	}
	return html.Div(
		html.ID("skeleton"),
		html.Class("grid htmx-indicator"),
		gomponents.Group(cards),
	)
}

// ResultGrid renders search results, or a friendly empty state.
func ResultGrid(results []domain.MovieSummary) gomponents.Node {
	if len(results) == 0 {
		return html.P(html.Class("empty-state"), gomponents.Text("No movies found. Try another title."))
	}
	cards := make([]gomponents.Node, 0, len(results))
	for _, m := range results {
		cards = append(cards, MovieCard(m))
	}
	return html.Div(html.Class("grid"), gomponents.Group(cards))
}

// MovieCard renders one clickable result tile.
func MovieCard(m domain.MovieSummary) gomponents.Node {
	return html.Div(
		html.Class("card"),
		hx.Get("/fragments/movie/"+url.PathEscape(m.IMDbID)),
		hx.Target("#detail"),
		hx.Swap("innerHTML show:top"),
		html.Img(
			html.Src(SafePoster(m.Poster)),
			html.Alt(m.Title),
			gomponents.Attr("loading", "lazy"),
		),
		html.H3(gomponents.Text(m.Title)),
		html.P(
			html.Class("card-meta"),
			gomponents.Textf("%s • %s", FormatField(m.Year), strings.ToUpper(m.Type)),
		),
	)
}

// SuggestionGrid renders the landing-page picks shown before any search.
func SuggestionGrid(picks []domain.MovieSummary) gomponents.Node {
	return html.Section(
		html.H2(html.Class("section-title"), gomponents.Text("Tonight's Picks")),
		ResultGrid(picks),
	)
}

// DegradedNotice renders in place of results when the catalog is unreachable.
func DegradedNotice() gomponents.Node {
	return html.P(html.Class("empty-state error"), gomponents.Text("Movie catalog is unavailable right now. Try again in a moment."))
}

// DetailPanel renders the full detail region for an opened movie: metadata,
// video tabs, and the review section.
func DetailPanel(detail domain.MovieDetail, groups map[string][]domain.Video, selectedCategory string, reviews []domain.Review, sentiment int, thumb domain.Thumb, prompt string) gomponents.Node {
	return html.Article(
		html.Class("detail"),
		html.Div(
			html.Class("detail-head"),
			html.Img(
				html.Class("detail-poster"),
				html.Src(SafePoster(detail.Poster)),
				html.Alt(detail.Title),
			),
			html.Div(
				html.Class("detail-meta"),
				html.H2(gomponents.Text(detail.Title)),
				metaRow("Year", detail.Year),
				metaRow("Rated", detail.Rated),
				metaRow("Runtime", detail.Runtime),
				metaRow("Genre", detail.Genre),
				metaRow("Director", detail.Director),
				metaRow("Country", detail.Country),
				html.P(html.Class("plot"), gomponents.Text(FormatField(detail.Plot))),
			),
		),
		VideoRegion(detail.IMDbID, groups, selectedCategory),
		ReviewSection(detail.IMDbID, reviews, sentiment, thumb, prompt),
	)
}

func metaRow(label, value string) gomponents.Node {
	return html.P(
		html.Class("meta-row"),
		html.Strong(gomponents.Text(label+": ")),
		gomponents.Text(FormatField(value)),
	)
}

// VideoRegion renders the category tabs and the player list for the selected
// category. With no embeddable videos the region collapses to a note.
func VideoRegion(movieID string, groups map[string][]domain.Video, selected string) gomponents.Node {
	categories := domain.OrderedCategories(groups)
	if len(categories) == 0 {
		return html.Section(
			html.ID("videos"),
			html.P(html.Class("empty-state"), gomponents.Text("No videos available for this movie.")),
		)
	}
	if _, ok := groups[selected]; !ok {
		selected = categories[0]
	}

	tabs := make([]gomponents.Node, 0, len(categories))
	for _, category := range categories {
		classes := "tab"
		if category == selected {
			classes = "tab active"
		}
		tabs = append(tabs, html.Button(
			html.Type("button"),
			html.Class(classes),
			hx.Get(fmt.Sprintf("/fragments/movie/%s/videos?category=%s", url.PathEscape(movieID), url.QueryEscape(category))),
			hx.Target("#videos"),
			hx.Swap("outerHTML"),
			gomponents.Textf("%s (%d)", CategoryLabel(category), len(groups[category])),
		))
	}

	return html.Section(
		html.ID("videos"),
		html.Div(html.Class("tabs"), gomponents.Group(tabs)),
		VideoList(groups[selected]),
	)
}

// VideoList renders up to maxEmbeds players for one category.
func VideoList(videos []domain.Video) gomponents.Node {
	if len(videos) > maxEmbeds {
		videos = videos[:maxEmbeds]
	}
	players := make([]gomponents.Node, 0, len(videos))
	for _, v := range videos {
		players = append(players, html.Div(
			html.Class("player"),
			html.IFrame(
				html.Src("https://www.youtube.com/embed/"+url.PathEscape(v.Key)),
				gomponents.Attr("allow", "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"),
				gomponents.Attr("allowfullscreen"),
				gomponents.Attr("loading", "lazy"),
			),
		))
	}
	return html.Div(html.Class("players"), gomponents.Group(players))
}

// ReviewSection renders the review composer, the sentiment bar, and the
// stored reviews for a movie. prompt is a validation message shown above the
// composer; empty means no message.
func ReviewSection(movieID string, reviews []domain.Review, sentiment int, thumb domain.Thumb, prompt string) gomponents.Node {
	nodes := []gomponents.Node{
		html.ID("reviewSection"),
		html.H3(gomponents.Text("Reviews")),
	}
	if len(reviews) > 0 {
		nodes = append(nodes, SentimentBar(sentiment))
	}
	if prompt != "" {
		nodes = append(nodes, html.P(html.Class("prompt"), gomponents.Text(prompt)))
	}
	nodes = append(nodes,
		reviewForm(movieID, thumb),
		ReviewList(movieID, reviews),
		html.Button(
			html.Type("button"),
			html.Class("danger"),
			hx.Post("/fragments/reviews/clear"),
			hx.Target("#reviewSection"),
			hx.Swap("outerHTML"),
			hx.Confirm("Delete every review on this device? This cannot be undone."),
			gomponents.Text("Clear all reviews"),
		),
	)
	return html.Section(nodes...)
}

func reviewForm(movieID string, thumb domain.Thumb) gomponents.Node {
	upClass, downClass := "thumb", "thumb"
	switch thumb {
	case domain.ThumbUp:
		upClass = "thumb selected"
	case domain.ThumbDown:
		downClass = "thumb selected"
	}
	return html.Form(
		html.Class("review-form"),
		hx.Post("/fragments/movie/"+url.PathEscape(movieID)+"/reviews"),
		hx.Target("#reviewSection"),
		hx.Swap("outerHTML"),
		html.Textarea(
			html.Name("text"),
			html.Placeholder("What did you think?"),
			html.Rows("3"),
		),
		html.Div(
			html.Class("thumb-row"),
			html.Button(
				html.Type("button"),
				html.Class(upClass),
				hx.Post("/fragments/movie/"+url.PathEscape(movieID)+"/thumb?choice=up"),
				hx.Target("#reviewSection"),
				hx.Swap("outerHTML"),
				gomponents.Text("👍"),
			),
			html.Button(
				html.Type("button"),
				html.Class(downClass),
				hx.Post("/fragments/movie/"+url.PathEscape(movieID)+"/thumb?choice=down"),
				hx.Target("#reviewSection"),
				hx.Swap("outerHTML"),
				gomponents.Text("👎"),
			),
		),
		html.Button(html.Type("submit"), gomponents.Text("Post review")),
	)
}

// SentimentBar renders the aggregate thumbs-up share.
func SentimentBar(percent int) gomponents.Node {
	return html.Div(
		html.Class("sentiment"),
		html.Div(
			html.Class("sentiment-fill"),
			html.StyleAttr(fmt.Sprintf("width: %d%%", percent)),
		),
		html.Span(gomponents.Textf("%d%% 👍", percent)),
	)
}

// ReviewList renders stored reviews newest first, each with a delete control.
func ReviewList(movieID string, reviews []domain.Review) gomponents.Node {
	if len(reviews) == 0 {
		return html.P(html.Class("empty-state"), gomponents.Text("No reviews yet. Be the first."))
	}
	items := make([]gomponents.Node, 0, len(reviews))
	for _, review := range reviews {
		icon := "👍"
		if review.Thumb == domain.ThumbDown {
			icon = "👎"
		}
		items = append(items, html.Li(
			html.Class("review"),
			html.Span(html.Class("review-thumb"), gomponents.Text(icon)),
			html.P(gomponents.Text(review.Text)),
			gomponents.El("time",
				gomponents.Attr("datetime", review.TS.Format(time.RFC3339)),
				gomponents.Text(review.TS.Format("Jan 2, 2006")),
			),
			html.Button(
				html.Type("button"),
				html.Class("delete"),
				hx.Post(fmt.Sprintf("/fragments/movie/%s/reviews/%s/delete", url.PathEscape(movieID), url.PathEscape(review.ID))),
				hx.Target("#reviewSection"),
				hx.Swap("outerHTML"),
				gomponents.Text("Delete"),
			),
		))
	}
	return html.Ul(html.Class("reviews"), gomponents.Group(items))
}

// StyleEl carries the page styles inline so the binary serves a single
// document with no asset pipeline.
func StyleEl() gomponents.Node {
	return html.StyleEl(gomponents.Raw(`
:root { color-scheme: dark; }
body { margin: 0; background: #15151c; color: #e8e8f0; font-family: system-ui, sans-serif; }
.site-header { padding: 1.5rem 2rem; border-bottom: 1px solid #2a2a35; }
.site-header h1 { margin: 0; }
.tagline { color: #8888a0; margin: 0.25rem 0 0; }
main { padding: 1.5rem 2rem; max-width: 1100px; margin: 0 auto; }
#searchForm { display: flex; gap: 0.5rem; margin-bottom: 1.5rem; }
#searchInput { flex: 1; padding: 0.6rem 0.8rem; border-radius: 6px; border: 1px solid #2a2a35; background: #1d1d26; color: inherit; }
button { padding: 0.55rem 1rem; border-radius: 6px; border: none; background: #4f46e5; color: white; cursor: pointer; }
button.danger { background: #b91c1c; }
button.delete { background: transparent; color: #8888a0; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(160px, 1fr)); gap: 1rem; }
.card { background: #1d1d26; border-radius: 8px; padding: 0.75rem; cursor: pointer; }
.card img { width: 100%; border-radius: 6px; aspect-ratio: 2 / 3; object-fit: cover; }
.card h3 { font-size: 0.95rem; margin: 0.5rem 0 0.25rem; }
.card-meta { color: #8888a0; font-size: 0.8rem; margin: 0; }
.htmx-indicator { display: none; }
.htmx-request .htmx-indicator, .htmx-request.htmx-indicator { display: grid; }
.skeleton-poster { aspect-ratio: 2 / 3; border-radius: 6px; background: #2a2a35; animation: pulse 1.2s infinite; }
.skeleton-line { height: 0.8rem; margin-top: 0.5rem; border-radius: 4px; background: #2a2a35; animation: pulse 1.2s infinite; }
.skeleton-line.short { width: 60%; }
@keyframes pulse { 50% { opacity: 0.45; } }
.detail { margin-top: 2rem; }
.detail-head { display: flex; gap: 1.5rem; }
.detail-poster { width: 220px; border-radius: 8px; }
.meta-row { margin: 0.2rem 0; }
.plot { color: #c8c8d8; }
.tabs { display: flex; gap: 0.5rem; flex-wrap: wrap; margin: 1.5rem 0 1rem; }
.tab { background: #1d1d26; }
.tab.active { background: #4f46e5; }
.players { display: grid; grid-template-columns: repeat(auto-fill, minmax(320px, 1fr)); gap: 1rem; }
.player iframe { width: 100%; aspect-ratio: 16 / 9; border: 0; border-radius: 8px; }
.sentiment { position: relative; height: 1.6rem; border-radius: 6px; background: #2a2a35; margin-bottom: 1rem; overflow: hidden; }
.sentiment-fill { position: absolute; inset: 0 auto 0 0; background: #16a34a; }
.sentiment span { position: relative; padding-left: 0.5rem; line-height: 1.6rem; font-size: 0.85rem; }
.review-form { display: flex; flex-direction: column; gap: 0.5rem; margin-bottom: 1rem; }
.review-form textarea { background: #1d1d26; color: inherit; border: 1px solid #2a2a35; border-radius: 6px; padding: 0.6rem; }
.thumb { background: #1d1d26; }
.thumb.selected { background: #4f46e5; }
.reviews { list-style: none; padding: 0; }
.review { background: #1d1d26; border-radius: 8px; padding: 0.75rem 1rem; margin-bottom: 0.5rem; }
.review time { color: #8888a0; font-size: 0.8rem; }
.prompt { color: #f59e0b; }
.empty-state { color: #8888a0; }
.empty-state.error { color: #f87171; }
`))
}
