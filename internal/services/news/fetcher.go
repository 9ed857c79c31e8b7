package news

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const moneycontrolNewsURL = "https://www.moneycontrol.com/news/business/markets/"

const fetcherUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// MoneycontrolFetcher 市场快讯抓取器（Moneycontrol 市场频道列表页）
type MoneycontrolFetcher struct {
	httpClient *http.Client
}

// NewMoneycontrolFetcher 创建 Moneycontrol 抓取器
func NewMoneycontrolFetcher() *MoneycontrolFetcher {
	return &MoneycontrolFetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Source 返回数据源标识
func (f *MoneycontrolFetcher) Source() string {
	return "moneycontrol"
}

// Fetch 抓取快讯列表
func (f *MoneycontrolFetcher) Fetch() ([]Telegraph, error) {
	req, err := http.NewRequest(http.MethodGet, moneycontrolNewsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", fetcherUA)
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse news html error: %w", err)
	}

	var items []Telegraph
	doc.Find("li.clearfix").Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h2 a").Text())
		if title == "" {
			return
		}
		url, _ := s.Find("h2 a").Attr("href")
		content := strings.TrimSpace(s.Find("p").First().Text())
		timeStr := strings.TrimSpace(s.Find("span").First().Text())

		items = append(items, Telegraph{
			Time:    timeStr,
			Title:   title,
			Content: content,
			URL:     url,
		})
	})

	if len(items) == 0 {
		return nil, fmt.Errorf("no news items parsed, selector may be stale")
	}
	return items, nil
}
