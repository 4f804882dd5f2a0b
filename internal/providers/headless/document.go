package headless

import (
	"bytes"
	"mime"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// page is what the renderer keeps of a loaded document.
type page struct {
	title   string
	charset string
	refresh *refresh
}

// refresh is a <meta http-equiv="refresh"> instruction.
type refresh struct {
	delay  time.Duration
	target *url.URL
}

const metaRefreshXPath = `//meta[translate(@http-equiv, 'REFSH', 'refsh')='refresh']`

// parsePage decodes body and extracts the parts the renderer needs. Bodies
// that are not HTML yield an empty page.
func parsePage(base *url.URL, contentType string, body []byte) (*page, error) {
	mediaType, params, _ := mime.ParseMediaType(contentType)
	sniffed := mimetype.Detect(body)
	if mediaType != "text/html" && !sniffed.Is("text/html") {
		return &page{}, nil
	}

	charset := params["charset"]
	if charset == "" {
		charset = detectCharset(body)
	}
	decoded := decode(body, charset)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, err
	}

	p := &page{
		title:   strings.TrimSpace(doc.Find("title").First().Text()),
		charset: charset,
	}

	root, err := htmlquery.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, err
	}
	if node := htmlquery.FindOne(root, metaRefreshXPath); node != nil {
		p.refresh = parseRefresh(base, htmlquery.SelectAttr(node, "content"))
	}
	return p, nil
}

func detectCharset(body []byte) string {
	result, err := chardet.NewHtmlDetector().DetectBest(body)
	if err != nil || result == nil {
		return ""
	}
	return result.Charset
}

// decode converts body to UTF-8. Unknown charsets leave it untouched.
func decode(body []byte, charset string) []byte {
	if charset == "" {
		return body
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return body
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return out
}

// parseRefresh parses a refresh value such as `5; url=/next`. A value
// without a target is ignored.
func parseRefresh(base *url.URL, content string) *refresh {
	content = strings.TrimSpace(content)
	i := strings.IndexAny(content, ";,")
	if i < 0 {
		return nil
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(content[:i]), 64)
	if err != nil || seconds < 0 {
		return nil
	}

	rest := strings.TrimSpace(content[i+1:])
	if len(rest) >= 3 && strings.EqualFold(rest[:3], "url") {
		rest = strings.TrimSpace(rest[3:])
		if !strings.HasPrefix(rest, "=") {
			return nil
		}
		rest = strings.TrimSpace(rest[1:])
	}
	rest = strings.Trim(rest, `'"`)
	if rest == "" {
		return nil
	}

	target, err := base.Parse(rest)
	if err != nil {
		return nil
	}
	return &refresh{
		delay:  time.Duration(seconds * float64(time.Second)),
		target: target,
	}
}
