package blueprint

import (
	"fmt"

	"github.com/dhruvat/astra-api/internal/domain"
)

// promptSpec carries everything needed to generate one blueprint page: the
// user prompt, the persona, and the sampling parameters tuned for that
// domain.
type promptSpec struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// promptBuilder constructs the promptSpec for one page from a profile.
type promptBuilder func(p *domain.Profile) promptSpec

// promptBuilders maps each blueprint page to its builder. Every page in
// domain.BlueprintPages must have an entry here.
var promptBuilders = map[string]promptBuilder{
	domain.PageCareer:           careerPrompt,
	domain.PageLifestyle:        lifestylePrompt,
	domain.PageHealth:           healthPrompt,
	domain.PageFamily:           familyPrompt,
	domain.PageFinance:          financePrompt,
	domain.PageSpiritual:        spiritualPrompt,
	domain.PageRemedies:         remediesPrompt,
	domain.PageVastu:            vastuPrompt,
	domain.PagePastKarma:        pastKarmaPrompt,
	domain.PageMedicalAstrology: medicalAstrologyPrompt,
	domain.PagePilgrimage:       pilgrimagePrompt,
}

// buildPrompt returns the promptSpec for the given page, or ErrUnknownPage
// when the page is not a blueprint page.
func buildPrompt(page string, p *domain.Profile) (promptSpec, error) {
	builder, ok := promptBuilders[page]
	if !ok {
		return promptSpec{}, fmt.Errorf("%w: %s", domain.ErrUnknownPage, page)
	}
	return builder(p), nil
}

func careerPrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate a comprehensive career blueprint for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Archetype: %s
- Core Vibration: %s
- Zodiac Sign: %s
- Current Age: %d

REQUIREMENTS:
1. Career paths aligned with their Life Path and Planetary energy
2. Specific job roles and industries that match their astrological profile
3. Career growth timeline (next 5 years)
4. Skills to develop
5. Best times for job changes or promotions
6. Salary trajectory based on their planetary influences
7. Work environment recommendations
8. Daily/weekly career action plan

Format as structured JSON with sections: careerPaths, timeline, skills, actionPlan, salaryProjection.

Be specific, practical, and aligned with Indian job market and astrological principles.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.Archetype, a.CoreVibration, a.ZodiacSign, p.Age),
		SystemPrompt: `You are an expert career counselor and Vedic astrologer. Provide detailed, personalized career guidance based on astrological profiles. Focus on practical, actionable advice for the Indian job market.`,
		Temperature:  0.8,
		MaxTokens:    3000,
	}
}

func lifestylePrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate a comprehensive lifestyle blueprint for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Archetype: %s
- Core Vibration: %s
- Zodiac Sign: %s
- Gender: %s

REQUIREMENTS:
1. Brand recommendations (watches, accessories, clothing) aligned with their planetary energy
2. Fragrance recommendations (EDP, EDT, Attar) based on their Life Path and archetype
3. Color palette recommendations
4. Style guidelines (minimalist, classy, grounded - matching their core vibration)
5. Budget-friendly options (under ₹3,000 for fragrances)
6. Occasion-based recommendations (office, parties, weddings, gym, home)
7. Brand analysis: Design Philosophy, Quality, Aura, Energetic Alignment
8. Specific product recommendations with prices and astrological scores
9. All product and style recommendations must suit their gender

Format as structured JSON with sections: accessories, fragrances, clothing, colors, styleGuide.

Focus on brands that amplify their "%s" aura.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.Archetype, a.CoreVibration, a.ZodiacSign, p.Gender, a.Archetype),
		SystemPrompt: `You are a lifestyle consultant specializing in astrological brand alignment. Recommend brands and products that energetically align with the user's planetary ruler and archetype. Focus on quality, authenticity, and "quiet luxury" that matches their core vibration.`,
		Temperature:  0.8,
		MaxTokens:    4000,
	}
}

func healthPrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate a comprehensive health and fitness blueprint for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Zodiac Sign: %s
- Current Age: %d
- Gender: %s

REQUIREMENTS:
1. Weight loss/gain plan based on planetary influences
2. Daily meal plan aligned with their zodiac sign
3. Exercise routine matching their planetary energy
4. Supplements and vitamins recommendations
5. Health predictions based on their chart
6. Best times for workouts and meals
7. Foods to avoid based on astrological profile
8. 90-day action plan

Format as structured JSON with sections: mealPlan, exercisePlan, supplements, healthPredictions, actionPlan.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.ZodiacSign, p.Age, p.Gender),
		SystemPrompt: `You are a health and fitness expert with knowledge of Ayurveda and medical astrology. Provide personalized health recommendations based on astrological profiles.`,
		Temperature:  0.7,
		MaxTokens:    3000,
	}
}

func familyPrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate a comprehensive family planning blueprint for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Zodiac Sign: %s
- Current Age: %d
- Gender: %s

REQUIREMENTS:
1. Best times for child conception based on their chart
2. Number of children recommended astrologically
3. Remedies for healthy pregnancy and children
4. Partner compatibility insights
5. Family planning timeline
6. Remedies for family harmony
7. Vastu recommendations for bedroom (conception)
8. Spiritual practices for family well-being

Format as structured JSON with sections: conceptionPlan, childrenPlan, remedies, timeline, vastuRecommendations.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.ZodiacSign, p.Age, p.Gender),
		SystemPrompt: `You are an expert in family planning, Vedic astrology, and spiritual remedies. Provide detailed guidance for family planning based on astrological charts.`,
		Temperature:  0.7,
		MaxTokens:    3000,
	}
}

func financePrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate a comprehensive financial blueprint for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Zodiac Sign: %s
- Current Age: %d

REQUIREMENTS:
1. Income trajectory based on planetary influences
2. Investment strategy aligned with their Life Path
3. Best investment types (stocks, real estate, gold, etc.)
4. Financial milestones and timeline
5. Wealth-building plan
6. Remedies for financial growth
7. Best times for major financial decisions
8. Monthly budget recommendations

Format as structured JSON with sections: incomeTrajectory, investmentStrategy, milestones, remedies, budgetPlan.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.ZodiacSign, p.Age),
		SystemPrompt: `You are a financial advisor with expertise in Vedic astrology and wealth management. Provide personalized financial planning based on astrological profiles.`,
		Temperature:  0.7,
		MaxTokens:    3000,
	}
}

func spiritualPrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate a comprehensive spiritual blueprint for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Archetype: %s
- Zodiac Sign: %s
- Mahadasha: %s

REQUIREMENTS:
1. Deity worship recommendations (based on planetary ruler)
2. Daily spiritual practices
3. Mantras and prayers specific to their chart
4. Gemstone recommendations
5. Puja rituals and timing
6. Spiritual remedies for life challenges
7. Protection items (rudraksha, yantras)
8. Best times for spiritual practices

Format as structured JSON with sections: deityWorship, dailyPractices, mantras, gemstones, remedies, protectionItems.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.Archetype, a.ZodiacSign, a.Mahadasha),
		SystemPrompt: `You are a spiritual guide and Vedic astrology expert. Provide detailed spiritual practices and remedies based on astrological charts.`,
		Temperature:  0.7,
		MaxTokens:    3000,
	}
}

func remediesPrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate comprehensive astrological remedies for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Mahadasha: %s
- Zodiac Sign: %s

REQUIREMENTS:
1. Remedies by Dasha periods
2. Remedies by life areas (Money, Career, Children, Health, Home)
3. Complete Daan (charity) schedule
4. Astrological gifts for family members
5. Specific remedies for their planetary influences
6. Timing for performing remedies

Format as structured JSON with sections: dashaRemedies, lifeAreaRemedies, daanSchedule, familyGifts.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.Mahadasha, a.ZodiacSign),
		SystemPrompt: `You are an expert in Vedic astrology remedies and spiritual practices. Provide detailed remedies based on astrological charts.`,
		Temperature:  0.7,
		MaxTokens:    3000,
	}
}

func vastuPrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate Vastu Shastra recommendations for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Zodiac Sign: %s

REQUIREMENTS:
1. Vastu for wealth
2. Vastu for children/conception (bedroom)
3. Vastu for peace and harmony
4. Vastu for vehicles and safe travel
5. Home buying checklist
6. Direction recommendations
7. Color recommendations for rooms

Format as structured JSON with sections: wealthVastu, childrenVastu, peaceVastu, vehicleVastu, homeChecklist.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.ZodiacSign),
		SystemPrompt: `You are a Vastu Shastra expert. Provide detailed Vastu recommendations based on astrological profiles.`,
		Temperature:  0.7,
		MaxTokens:    3000,
	}
}

func pastKarmaPrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate a past karma analysis for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Zodiac Sign: %s
- Mahadasha: %s

REQUIREMENTS:
1. Karmic lessons carried into this life
2. Past life influences on current challenges
3. Karmic debts and how to resolve them
4. Relationships with karmic significance
5. Remedies to clear karmic blockages
6. Soul purpose for this lifetime

Format as structured JSON with sections: karmicLessons, pastLifeInfluences, karmicDebts, remedies, soulPurpose.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.ZodiacSign, a.Mahadasha),
		SystemPrompt: `You are an expert in karmic astrology and past life analysis. Provide detailed karmic insights and remedies based on astrological charts.`,
		Temperature:  0.7,
		MaxTokens:    3000,
	}
}

func medicalAstrologyPrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate medical astrology predictions for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Zodiac Sign: %s
- Current Age: %d

REQUIREMENTS:
1. Planetary health influences
2. Critical health periods by Dasha
3. Medical test schedule
4. Health predictions
5. Preventive measures
6. Foods and lifestyle for health

Format as structured JSON with sections: planetaryInfluences, criticalPeriods, testSchedule, predictions, preventiveMeasures.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.ZodiacSign, p.Age),
		SystemPrompt: `You are a medical astrology expert. Provide health predictions and recommendations based on astrological charts.`,
		Temperature:  0.7,
		MaxTokens:    3000,
	}
}

func pilgrimagePrompt(p *domain.Profile) promptSpec {
	a := p.Astrology
	return promptSpec{
		Prompt: fmt.Sprintf(`Generate pilgrimage recommendations for %s:

ASTROLOGICAL PROFILE:
- Life Path Number: %d
- Planetary Ruler: %s
- Zodiac Sign: %s
- Mahadasha: %s

REQUIREMENTS:
1. Critical priority temple visits
2. Temples by life goals (children, wealth, health)
3. 5-year pilgrimage roadmap
4. Best times to visit each temple
5. Budget estimates
6. Specific prayers and offerings for each temple

Format as structured JSON with sections: priorityVisits, templesByGoal, roadmap, budget.`,
			p.Name, a.LifePath, a.PlanetaryRuler.Planet, a.ZodiacSign, a.Mahadasha),
		SystemPrompt: `You are an expert in Hindu pilgrimage sites and Vedic astrology. Provide personalized temple visit recommendations based on astrological charts.`,
		Temperature:  0.7,
		MaxTokens:    3000,
	}
}
