package conf

type Bootstrap struct {
	Server *Server
	Agent  *Agent
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Agent struct {
	Llm         *LLM         `json:"llm"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Db          *DB          `json:"db"`
	Pipeline    *Pipeline    `json:"pipeline"`
	Channels    *Channels    `json:"channels"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
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

type Pipeline struct {
	ChunkSize               int32   `json:"chunk_size"`
	ChunkOverlap            int32   `json:"chunk_overlap"`
	NoiseThreshold          float64 `json:"noise_threshold"`
	EnableConflictDetection *bool   `json:"enable_conflict_detection"`
	ProjectFilter           string  `json:"project_filter"`
}

type Channels struct {
	Slack     *Slack     `json:"slack"`
	Fireflies *Fireflies `json:"fireflies"`
}

type Slack struct {
	Token     string `json:"token"`
	ChannelId string `json:"channel_id"`
	Limit     int32  `json:"limit"`
}

type Fireflies struct {
	ApiKey string `json:"api_key"`
	Limit  int32  `json:"limit"`
}
