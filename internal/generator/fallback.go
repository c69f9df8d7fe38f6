package generator

import "fmt"

var fallbackMilestones = []Milestone{
	{Phase: "Foundation", Action: "Learn the core principles and practice for thirty minutes every day."},
	{Phase: "Practice", Action: "Apply the skill in low-stakes settings with peers and a mentor."},
	{Phase: "Leadership", Action: "Lead a small workshop or project that puts the skill to work."},
	{Phase: "Impact", Action: "Mentor newcomers and use the skill to drive a community initiative."},
}

var fallbackGoals = []string{
	"Engage 500 young people in hands-on local projects within a year.",
	"Build partnerships with five community organizations.",
	"Publish an annual report that measures progress and shares stories.",
}

// FallbackRoadmap is served whenever a roadmap cannot be generated. Only
// the skill varies between calls.
func FallbackRoadmap(skill string) Roadmap {
	return Roadmap{
		Skill:      skill,
		Vision:     fmt.Sprintf("Master %s and become a confident leader who inspires change in your community.", skill),
		Milestones: append([]Milestone(nil), fallbackMilestones...),
	}
}

// FallbackImpactStory is served whenever an impact vision cannot be
// generated. Only the topic varies between calls.
func FallbackImpactStory(topic string) ImpactStory {
	return ImpactStory{
		Topic:    topic,
		Vision:   fmt.Sprintf("A future where action on %s empowers every young person to build a thriving community.", topic),
		KeyGoals: append([]string(nil), fallbackGoals...),
	}
}
