package classifier

import "github.com/coscup/sessiongen/internal/domain"

// Rule assigns Tag when any keyword is a substring of the session text.
// Keywords padded with spaces, like " go ", must not touch other Latin
// letters but may touch CJK text or punctuation.
type Rule struct {
	Tag      domain.Tag
	Keywords []string
}

// DefaultRules is the keyword table for COSCUP sessions. Order matters: tags
// are emitted in the order their rules are declared here.
var DefaultRules = []Rule{
	{domain.TagAI, []string{"ai", "machine learning", "deep learning", "neural", "llm", "chatgpt", "agent", "機器學習", "人工智慧"}},
	{domain.TagLanguages, []string{"golang", " go ", "python", "rust", "javascript", "typescript", "kotlin", "java", "ruby", "swift", "jvm", "programming", "程式語言"}},
	{domain.TagSecurity, []string{"security", "secure", "attack", "vulnerability", "encryption", "privacy", "hack", "hitcon", "資安", "隱私", "安全"}},
	{domain.TagWeb3, []string{"blockchain", "web3", "cryptocurrency", "nft", "defi", "區塊鏈"}},
	{domain.TagDatabase, []string{"database", "sql", "postgresql", "mysql", "redis", "資料庫"}},
	{domain.TagHardware, []string{"hardware", "firmware", "raspberry pi", "iot", "embedded", "risc-v", "fpga", "硬體"}},
	{domain.TagVehicle, []string{"vehicle", "automotive", "sdv", "車用"}},
	{domain.TagNetwork, []string{"network", "tcp", "http", "api", "網路"}},
	{domain.TagDevOps, []string{"devops", "kubernetes", "docker", "cloud", "deployment", "ci/cd", "monitoring"}},
	{domain.TagSystem, []string{"system", "linux", "kernel", "operating", "系統"}},
	{domain.TagEnterprise, []string{"enterprise", "odoo", "erp", "business", "企業"}},
	{domain.TagData, []string{"data", "analytics", "visualization", "資料", "分析"}},
	{domain.TagGaming, []string{"game", "gaming", "遊戲"}},
	{domain.TagAgriculture, []string{"agriculture", "farming", "農業"}},
	{domain.TagHealthcare, []string{"healthcare", "medical", "health", "醫療"}},
	{domain.TagPolicy, []string{"policy", "license", "licensing", "legal", "governance", "政策", "授權"}},
	{domain.TagGlobal, []string{"global", "international", "world tour", "japan", "fosdem", "日本"}},
	{domain.TagOpenData, []string{"openstreetmap", "openstreet", "wikidata", "wikipedia", "open data", "開放資料"}},
	{domain.TagEducation, []string{"education", "teaching", "tutorial", "student", "beginner", "教學", "入門", "學習"}},
	{domain.TagSocial, []string{"social", "community", "networking", "unconference", "bof", "hacking corner", "交流", "社群"}},
	{domain.TagSideProject, []string{"side project", "indie", "startup"}},
	{domain.TagKeynote, []string{"keynote", "main session", "welcome", "closing"}},
}

// keynoteMarkers select the Keynote fallback when no rule fired.
var keynoteMarkers = []string{"keynote", "opening"}
