// Package feed produces pages of wallpaper records from a static image host.
//
// # Overview
//
// The image host serves files named "img (<n>).jpg" where n is a 1-based
// sequential integer. There is no listing endpoint, so the package derives
// everything from the page index:
//
//	page p, size s, total t
//	ids    = [(p-1)*s + 1, min(p*s, t)]
//	url(n) = <base>/img%20(<n>).jpg
//	name   = "img (<n>)"
//	label  = CategoryFor(n)   static table of id ranges
//
// A page past the ceiling comes back empty. Callers treat an empty or short
// page as exhaustion.
//
// # Transport
//
// Deriving records needs no network, but a page whose images cannot be served
// is useless to the UI. FetchPage therefore issues one GET for the first image
// of the page and discards the body. Any transport failure or HTTP status
// >= 400 is returned as an error wrapping ErrUnavailable. The client never
// falls back to mock records and never returns a previous page.
//
// Open streams a single image body and is used by the download package.
//
// # Usage
//
//	client, err := feed.NewClient(feed.Options{BaseURL: cfg.BaseURL})
//	if err != nil {
//		return err
//	}
//	page, err := client.FetchPage(ctx, 1)
//	if errors.Is(err, feed.ErrUnavailable) {
//		// show retry notice
//	}
//
// # Testing
//
// Source is the interface the state store depends on. Tests either use an
// httptest server as BaseURL or set NoProbe to stay offline.
package feed
