package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

func main() {
	addr := getenv("FEED_ADDR", ":8081")

	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rss", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = fmt.Fprint(w, feed(time.Now().UTC()))
	})
	mux.HandleFunc("GET /hits", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, "%d\n", hits.Load())
	})

	log.Printf("feed stub listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("listen %s: %v", addr, err)
	}
}

// feed returns two entries published an hour ago: one text, one image only.
func feed(now time.Time) string {
	pub := now.Add(-time.Hour).Format(time.RFC1123Z)
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Stub department news</title>
  <link>http://feeds/</link>
  <item>
    <title>Stub announcement</title>
    <guid>stub-announcement</guid>
    <description>Imported from the feed stub.</description>
    <pubDate>` + pub + `</pubDate>
  </item>
  <item>
    <title>Stub poster</title>
    <guid>stub-poster</guid>
    <enclosure url="http://feeds/poster.png" length="1" type="image/png"/>
    <pubDate>` + pub + `</pubDate>
  </item>
</channel>
</rss>
`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
