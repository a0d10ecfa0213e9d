package conf

// Bootstrap is the top-level server configuration scanned from yaml.
type Bootstrap struct {
	Server *Server
	Data   *Data
	Engine *Engine
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Data struct {
	Database *Database
}

type Database struct {
	Driver string
	Source string
}

// Engine mirrors pkg/config.Config for the embedded evaluation engine.
type Engine struct {
	Llm         *LLM         `json:"llm"`
	Stats       *Stats       `json:"stats"`
	Similar     *Similar     `json:"similar"`
	Scoring     *Scoring     `json:"scoring"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Db          *DB          `json:"db"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Stats struct {
	Provider     string    `json:"provider"`
	Season       string    `json:"season"`
	CacheTtlDays int32     `json:"cache_ttl_days"`
	Api          *StatsAPI `json:"api"`
}

type StatsAPI struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
	Rpm     int32  `json:"rpm"`
}

type Similar struct {
	Provider   string  `json:"provider"`
	MaxResults int32   `json:"max_results"`
	MinScore   float64 `json:"min_score"`
}

type Scoring struct {
	ImpactWeights       map[string]float64 `json:"impact_weights"`
	FairThreshold       float64            `json:"fair_threshold"`
	UnbalancedThreshold float64            `json:"unbalanced_threshold"`
	MinGamesPlayed      int32              `json:"min_games_played"`
	DraftRoundValues    map[int]float64    `json:"draft_round_values"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type DB struct {
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
