package generator

import (
	"fmt"

	"github.com/ziadkadry99/youthsite/internal/llm"
)

const systemPrompt = `You write short, encouraging content for a youth organization's website.
Respond with a single JSON object that matches the requested schema. Do not
wrap it in markdown and do not add commentary.`

func roadmapPrompt(skill string) string {
	return fmt.Sprintf(`Create a personal growth roadmap for a young person who wants to develop the skill %q.
Write a one-sentence inspiring vision and exactly four milestones, ordered from
beginner to community leader. Each milestone has a short phase name and one
concrete action.`, skill)
}

func impactPrompt(topic string) string {
	return fmt.Sprintf(`Describe the impact a youth-led initiative on %q could have on its community.
Write a one-sentence vision and three specific, measurable key goals.`, topic)
}

var roadmapSchema = llm.Object(map[string]*llm.Schema{
	"skill":  llm.String("The skill, echoed back."),
	"vision": llm.String("One inspiring sentence."),
	"milestones": llm.ArrayOf(llm.Object(map[string]*llm.Schema{
		"phase":  llm.String("Short phase name."),
		"action": llm.String("One concrete action."),
	})),
})

var impactSchema = llm.Object(map[string]*llm.Schema{
	"topic":    llm.String("The topic, echoed back."),
	"vision":   llm.String("One inspiring sentence."),
	"keyGoals": llm.ArrayOf(llm.String("A measurable goal.")),
})
