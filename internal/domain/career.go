package domain

type CareerLevel struct {
	ID              int64  `json:"id"`
	Track           string `json:"track"`
	Level           int    `json:"level"`
	Title           string `json:"title"`
	PayClass        string `json:"pay_class"`
	Summary         string `json:"summary"`
	ImpactScope     string `json:"impact_scope"`
	ProjectCategory string `json:"project_category,omitempty"`
}

type CompetencyArea struct {
	ID          int64  `json:"id"`
	AreaKey     string `json:"area_key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CompetencyExpectation 描述某个能力维度在某个 pay class 下的期望。
// (competency_area_id, pay_class) 在存储层不唯一，读取时取 id 最小的一条。
type CompetencyExpectation struct {
	ID               int64  `json:"id"`
	CompetencyAreaID int64  `json:"competency_area_id"`
	PayClass         string `json:"pay_class"`
	Expectations     string `json:"expectations"`
	Scope            string `json:"scope"`
}

// CompetencyAreaDetail 是能力维度及其在各 pay class 下的期望
type CompetencyAreaDetail struct {
	CompetencyArea
	Expectations []*CompetencyExpectation `json:"expectations"`
}
