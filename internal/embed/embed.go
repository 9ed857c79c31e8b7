package embed

import (
	_ "embed"
)

// FinancialDataJSON 嵌入的演示财务数据
// 编译时从 financial_data.json 嵌入到二进制文件中
//
//go:embed financial_data.json
var FinancialDataJSON []byte
