package news

// Telegraph 市场快讯条目
type Telegraph struct {
	Time    string `json:"time"`    // 上游展示时间，如 "10:42 AM"
	Title   string `json:"title"`   // 标题
	Content string `json:"content"` // 摘要正文
	URL     string `json:"url"`     // 原文链接
}

// Fetcher 快讯数据获取接口
type Fetcher interface {
	// Fetch 获取快讯列表
	Fetch() ([]Telegraph, error)
	// Source 返回数据源标识
	Source() string
}
