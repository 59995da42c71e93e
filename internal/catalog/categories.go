package catalog

var defaultCategories = []Category{
	{
		ID:   "velvet_domme",
		Name: "Velvet Domme",
		Description: "You don't raise your voice, they lean in to listen. Elegant, articulate, " +
			"and lowkey intense, your companionship feels like a perfectly curated evening: " +
			"classy, intimate, and just suggestive enough.",
		ImageURL: "/images/personalities/velvet-domme.png",
		Traits:   []string{"composed", "confident", "charismatic", "intelligent", "dominant", "mysterious"},
		Archetype: Archetype{
			Direction:    "n",
			Dominance:    0.95,
			Explicitness: 0.5,
			Interests:    []string{"psychology", "film noir", "trip-hop", "vintage fashion", "power dynamics", "aesthetic curation"},
			Services:     []string{"Voice Call / Chilling / Date Night", "Video Call / Cam On", "Tarot Reading", "Language Exchange", "NSFW", "Custom Requests"},
		},
	},
	{
		ID:   "flirt_boss",
		Name: "Flirt Boss",
		Description: "You're the confident tease they can't stop thinking about. You know how to " +
			"lead a convo, keep them on their toes, and turn casual flirting into an art form.",
		ImageURL: "/images/personalities/flirt-boss.png",
		Traits:   []string{"flirtatious", "playful", "confident", "teasing", "witty", "social"},
		Archetype: Archetype{
			Direction:    "ne",
			Dominance:    0.85,
			Explicitness: 0.75,
			Interests:    []string{"pop music", "K-pop", "romcoms", "TikTok trends", "live streaming", "astrology"},
			Services:     []string{"Voice Call / Chilling / Date Night", "Texting", "Pictures / Selfies / Outfit", "Singing / Karaoke", "Add Socials", "NSFW"},
		},
	},
	{
		ID:   "thirst_trap_icon",
		Name: "Thirst Trap Icon",
		Description: "You serve heat unapologetically. You're not just NSFW, you're the blueprint. " +
			"Every interaction is confident, curated, and unforgettable.",
		ImageURL: "/images/personalities/thirst-trap-icon.png",
		Traits:   []string{"sensual", "assertive", "confident", "shameless", "provocative", "bold"},
		Archetype: Archetype{
			Direction:    "e",
			Dominance:    0.5,
			Explicitness: 0.95,
			Interests:    []string{"photography", "club music", "body art", "fashion shoots", "music videos", "spicy anime"},
			Services:     []string{"NSFW", "Pictures / Selfies / Outfit", "Video", "Voice Message / Voice Lines / Voice Greeting", "Custom Requests"},
		},
	},
	{
		ID:   "innocent_baddie",
		Name: "Innocent Baddie",
		Description: "You're soft-spoken with spicy undertones, like lace over leather. You mix cute " +
			"aesthetics with subtle chaos, and that duality keeps people hooked.",
		ImageURL: "/images/personalities/innocent-baddie.png",
		Traits:   []string{"soft", "flirtatious", "mischievous", "gentle", "suggestive", "cute"},
		Archetype: Archetype{
			Direction:    "se",
			Dominance:    0.35,
			Explicitness: 0.85,
			Interests:    []string{"anime (ecchi/romance)", "bubble pop", "pastel aesthetics", "fan edits", "cosplay", "roleplay"},
			Services:     []string{"Voice Message / Voice Lines / Voice Greeting", "NSFW", "Drawing / Doodles", "Sleep Call", "ASMR / Whisper / Soft Spoken"},
		},
	},
	{
		ID:   "soft_angel",
		Name: "Soft Angel",
		Description: "You're the safe space. The quiet voice at 2 a.m. Your presence feels like a " +
			"soft blanket: comforting, affirming, and warm.",
		ImageURL: "/images/personalities/soft-angel.png",
		Traits:   []string{"caring", "gentle", "patient", "empathetic", "wholesome", "shy"},
		Archetype: Archetype{
			Direction:    "w",
			Dominance:    0.5,
			Explicitness: 0.05,
			Interests:    []string{"cottagecore", "lo-fi music", "poetry", "nature walks", "tea culture", "handwritten letters"},
			Services:     []string{"Sleep Call", "ASMR / Whisper / Soft Spoken", "Voice Call / Chilling / Date Night", "Drawing / Doodles", "Reading Stories"},
		},
	},
	{
		ID:   "secret_deviant",
		Name: "Secret Deviant",
		Description: "You're the quiet one with hidden depths. Sweet on the surface but spicy " +
			"underneath, you surprise people with your adventurous side when they least expect it.",
		ImageURL: "/images/personalities/secret-deviant.png",
		Traits:   []string{"mysterious", "sensual", "submissive", "surprising", "playful", "hidden"},
		Archetype: Archetype{
			Direction:    "sw",
			Dominance:    0.15,
			Explicitness: 0.85,
			Interests:    []string{"secret fantasies", "romantic novels", "intimate conversations", "role playing", "hidden desires", "private moments"},
			Services:     []string{"NSFW", "Voice Call / Chilling / Date Night", "Texting", "Custom Requests", "Roleplay", "Private Sessions"},
		},
	},
	{
		ID:   "himbo_bimbo_babe",
		Name: "Himbo/Bimbo Babe",
		Description: "You're the loveable sexy one everyone adores. Sweet, fun, and unapologetically " +
			"hot, you bring joy and spice in equal measure with zero pretense.",
		ImageURL: "/images/personalities/himbo-bimbo-babe.png",
		Traits:   []string{"sweet", "sexy", "fun", "carefree", "loveable", "enthusiastic"},
		Archetype: Archetype{
			Direction:    "s",
			Dominance:    0.05,
			Explicitness: 0.85,
			Interests:    []string{"pop culture", "fashion", "social media", "parties", "selfies", "trending topics"},
			Services:     []string{"NSFW", "Voice Call / Chilling / Date Night", "Pictures / Selfies / Outfit", "Video", "Texting", "Custom Requests"},
		},
	},
	{
		ID:   "chaotic_cutie",
		Name: "Chaotic Cutie",
		Description: "You're the adorable wildcard no one can predict. High energy, contradictory " +
			"vibes, and endlessly entertaining, you keep everyone guessing in the best way.",
		ImageURL: "/images/personalities/chaotic-cutie.png",
		Traits:   []string{"chaotic", "cute", "unpredictable", "energetic", "contradictory", "entertaining"},
		Archetype: Archetype{
			Direction:    "nw",
			Dominance:    0.85,
			Explicitness: 0.35,
			Interests:    []string{"random hobbies", "memes", "chaos magic", "impulsive adventures", "contradictory aesthetics", "spontaneous creativity"},
			Services:     []string{"Voice Call / Chilling / Date Night", "Gaming", "Random Conversations", "Creative Chaos", "Spontaneous Content", "Unpredictable Fun"},
		},
	},
}
