package domain

const MailTypeDevelopmentPlanCreated = "development_plan_created"

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type DevelopmentPlanMailData struct {
	Name            string `json:"name"`
	PlanID          int64  `json:"planID"`
	CurrentLevel    string `json:"currentLevel"`
	TargetLevel     string `json:"targetLevel"`
	TargetDate      string `json:"targetDate"`
	TotalObjectives int    `json:"totalObjectives"`
}
