package seed

import "github.com/growthpath/backend/internal/domain"

func SampleCompetencies() []*domain.Competency {
	return []*domain.Competency{
		// 技术能力
		{Name: "Python Programming", Description: "Proficiency in Python language, libraries, and best practices", Category: domain.CategoryTechnical},
		{Name: "Web Development", Description: "Frontend and backend web development skills (HTML, CSS, JavaScript, frameworks)", Category: domain.CategoryTechnical},
		{Name: "Database Management", Description: "SQL, NoSQL, database design and optimization", Category: domain.CategoryTechnical},
		{Name: "Cloud Technologies", Description: "AWS, Azure, GCP - cloud infrastructure and services", Category: domain.CategoryTechnical},
		{Name: "DevOps & CI/CD", Description: "Continuous integration, deployment pipelines, Docker, Kubernetes", Category: domain.CategoryTechnical},

		// 软技能
		{Name: "Communication", Description: "Clear verbal and written communication with team members and stakeholders", Category: domain.CategorySoftSkills},
		{Name: "Problem Solving", Description: "Analytical thinking and creative solution development", Category: domain.CategorySoftSkills},
		{Name: "Collaboration", Description: "Working effectively in team environments, cross-functional cooperation", Category: domain.CategorySoftSkills},
		{Name: "Time Management", Description: "Prioritization, meeting deadlines, managing multiple tasks", Category: domain.CategorySoftSkills},
		{Name: "Adaptability", Description: "Flexibility in changing environments, learning new technologies", Category: domain.CategorySoftSkills},

		// 领导力
		{Name: "Team Leadership", Description: "Leading and motivating teams, delegating tasks effectively", Category: domain.CategoryLeadership},
		{Name: "Strategic Thinking", Description: "Long-term planning, identifying opportunities and risks", Category: domain.CategoryLeadership},
		{Name: "Decision Making", Description: "Making informed decisions under pressure and uncertainty", Category: domain.CategoryLeadership},
		{Name: "Mentoring", Description: "Coaching and developing team members, knowledge sharing", Category: domain.CategoryLeadership},

		// 领域知识
		{Name: "Agile Methodologies", Description: "Scrum, Kanban, agile principles and practices", Category: domain.CategoryDomainKnowledge},
		{Name: "Software Architecture", Description: "System design patterns, microservices, scalability principles", Category: domain.CategoryDomainKnowledge},
		{Name: "Data Analysis", Description: "Data interpretation, statistical analysis, visualization", Category: domain.CategoryDomainKnowledge},
		{Name: "Security Best Practices", Description: "Application security, authentication, encryption, compliance", Category: domain.CategoryDomainKnowledge},
	}
}
