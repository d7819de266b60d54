package mealdb

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxIngredients is the number of numbered ingredient slots in a detail record.
const MaxIngredients = 20

// Summary is the list view of a meal.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
	Area      string `json:"area,omitempty"`
	Category  string `json:"category,omitempty"`
}

// Ingredient pairs an ingredient with its measure.
type Ingredient struct {
	Name    string
	Measure string
}

// Meal is a full recipe.
type Meal struct {
	Summary
	Instructions string
	Tags         []string
	YouTube      string
	Source       string
	Ingredients  []Ingredient
}

// Step is one numbered instruction sentence.
type Step struct {
	Index int
	Text  string
}

var sentenceBreak = regexp.MustCompile(`\.\s+`)

// Steps splits the instructions into sentences, each ending with a period.
func (m Meal) Steps() []Step {
	if strings.TrimSpace(m.Instructions) == "" {
		return nil
	}
	var steps []Step
	for _, part := range sentenceBreak.Split(m.Instructions, -1) {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		if !strings.HasSuffix(text, ".") {
			text += "."
		}
		steps = append(steps, Step{Index: len(steps) + 1, Text: text})
	}
	return steps
}

// rawMeal is one element of the API's "meals" array. Every field is a string
// or null, so a map keeps the 40 numbered ingredient fields manageable.
type rawMeal map[string]*string

type mealsEnvelope struct {
	Meals []rawMeal `json:"meals"`
}

func (r rawMeal) get(key string) string {
	if v, ok := r[key]; ok && v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

func (r rawMeal) summary() Summary {
	return Summary{
		ID:        r.get("idMeal"),
		Name:      r.get("strMeal"),
		Thumbnail: r.get("strMealThumb"),
		Area:      r.get("strArea"),
		Category:  r.get("strCategory"),
	}
}

func (r rawMeal) meal() Meal {
	m := Meal{
		Summary:      r.summary(),
		Instructions: r.get("strInstructions"),
		YouTube:      r.get("strYoutube"),
		Source:       r.get("strSource"),
	}
	if tags := r.get("strTags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				m.Tags = append(m.Tags, tag)
			}
		}
	}
	for i := 1; i <= MaxIngredients; i++ {
		name := r.get(fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		m.Ingredients = append(m.Ingredients, Ingredient{
			Name:    name,
			Measure: r.get(fmt.Sprintf("strMeasure%d", i)),
		})
	}
	return m
}
