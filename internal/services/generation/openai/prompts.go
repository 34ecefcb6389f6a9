package openai

import (
	"fmt"
	"strings"

	"github.com/unifiedui/card-service/internal/domain/models"
)

const textSystemPrompt = "You write short greeting card texts for colleagues. " +
	"Answer with the card text only: no title, no quotes, no signature, at most 60 words."

var textStyleGuides = map[models.TextStyle]string{
	models.TextStyleWarm:     "Write in a warm, sincere and friendly tone.",
	models.TextStyleFormal:   "Write in a formal, respectful business tone.",
	models.TextStyleHumorous: "Write in a light, good-natured humorous tone.",
	models.TextStylePoetic:   "Write as a short rhyming poem of four lines.",
}

var imageStyleGuides = map[models.ImageStyle]string{
	models.ImageStyleRealistic:  "photorealistic, soft natural light, shallow depth of field",
	models.ImageStyleCartoon:    "bright cartoon illustration, bold outlines, cheerful colors",
	models.ImageStyleWatercolor: "delicate watercolor painting, pastel palette, paper texture",
	models.ImageStyleMinimalist: "minimalist flat design, lots of negative space, two or three colors",
}

func buildTextPrompt(style models.TextStyle, recipient, reason, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a greeting card text for %s.", recipient)
	if reason != "" {
		fmt.Fprintf(&b, " Occasion: %s.", reason)
	}
	if message != "" {
		fmt.Fprintf(&b, " Base it on this message from the sender: %q.", message)
	}
	if guide, ok := textStyleGuides[style]; ok {
		b.WriteString(" ")
		b.WriteString(guide)
	}
	return b.String()
}

// buildImagePrompt never puts text on the card; image models render lettering poorly.
func buildImagePrompt(style models.ImageStyle, recipient, reason string) string {
	var b strings.Builder
	b.WriteString("A festive greeting card illustration")
	if reason != "" {
		fmt.Fprintf(&b, " celebrating %s", reason)
	}
	fmt.Fprintf(&b, " for a colleague named %s", recipient)
	if guide, ok := imageStyleGuides[style]; ok {
		b.WriteString(", ")
		b.WriteString(guide)
	}
	b.WriteString(". No text, letters or words in the image.")
	return b.String()
}
