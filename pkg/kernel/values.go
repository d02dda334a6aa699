package kernel

type VacancyTitle string

type VacancyDescription string

type VacancyPosition string

type VacancyRequirement string

type Email string

func (e Email) String() string { return string(e) }

type ResumeText string

type ResumeEmbedding []float32

type BucketURL string
