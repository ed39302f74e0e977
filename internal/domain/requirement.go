package domain

// Requirement is the structured procurement need driving a discovery run.
// It is an immutable input: the pipeline never writes back into it.
type Requirement struct {
	ProductType         string
	Budget              string // free-form currency string, may be empty
	Location            string
	SpecialRequirements []string
	Urgency             string
	Brand               string
}
