package chat

// Mode is the instructional stance for generation.
type Mode string

const (
	// ModeFull produces a complete guided solution.
	ModeFull Mode = "full"
	// ModeHints guides the student with progressive hints.
	ModeHints Mode = "hints"
	// ModeCheck verifies a solution submitted by the student.
	ModeCheck Mode = "check"
)

// Defaults applied when the client omits a classification value.
const (
	DefaultSubject = "Mathématiques"
	DefaultLevel   = "lycee"
)

// ParseMode maps a client-supplied mode string to a Mode,
// falling back to ModeFull.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeHints:
		return ModeHints
	case ModeCheck:
		return ModeCheck
	default:
		return ModeFull
	}
}

// modeInstructions is the instruction template per mode.
var modeInstructions = map[Mode]string{
	ModeFull: "MODE: Solution Complete Guidee. Tu RESOUS le probleme completement etape par etape. " +
		"Structure: 1. Etat du probleme et objectif 2. Etapes numerotees avec explications " +
		"3. Reponse finale 4. Verification 5. Methode a retenir",
	ModeHints: "MODE: Indices Progressifs. Donne des INDICES, pas la solution complete. " +
		"Pose des questions qui guident vers la reponse.",
	ModeCheck: "MODE: Verification de Solution. Verifie si la reponse de l'eleve est correcte. " +
		"Si correct: felicite. Si incorrect: identifie l'erreur.",
}

// levelDescriptions expands a level code into its school-system description.
// Unknown levels pass through verbatim.
var levelDescriptions = map[string]string{
	"college":    "College (6eme, 5eme, 4eme, 3eme - preparation au BFEM)",
	"lycee":      "Lycee (2nde, 1ere, Terminale - preparation au BAC)",
	"universite": "Universite (Licence, Master)",
}

const basePrompt = "Tu es un excellent tuteur educatif pour les eleves senegalais. " +
	"IMPORTANT: Sois PRECIS et EXACT dans tes explications. Verifie toujours tes formules et termes. " +
	"Par exemple: pour un rectangle (2D), on utilise largeur et longueur, PAS hauteur (hauteur est pour 3D). " +
	"PHILOSOPHIE: Tu RESOUS les problemes completement - tu aides vraiment l'eleve. " +
	"Tu guides etape par etape avec des explications claires. Tu es patient, encourageant et positif."

// LevelDescription returns the description for a level code.
func LevelDescription(level string) string {
	if desc, ok := levelDescriptions[level]; ok {
		return desc
	}
	return level
}

// SystemPrompt builds the system instruction for a subject, level and mode.
func SystemPrompt(subject, level string, mode Mode) string {
	instruction, ok := modeInstructions[mode]
	if !ok {
		instruction = modeInstructions[ModeFull]
	}
	return basePrompt +
		" MATIERE: " + subject +
		" NIVEAU: " + LevelDescription(level) +
		" " + instruction
}
