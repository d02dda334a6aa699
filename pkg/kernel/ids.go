package kernel

type VacancyID string

func NewVacancyID(id string) VacancyID { return VacancyID(id) }
func (v VacancyID) String() string     { return string(v) }
func (v VacancyID) IsEmpty() bool      { return string(v) == "" }

type ApplicationID string

func NewApplicationID(id string) ApplicationID { return ApplicationID(id) }
func (a ApplicationID) String() string         { return string(a) }
func (a ApplicationID) IsEmpty() bool          { return string(a) == "" }

type SessionID string

func NewSessionID(id string) SessionID { return SessionID(id) }
func (s SessionID) String() string     { return string(s) }
func (s SessionID) IsEmpty() bool      { return string(s) == "" }
