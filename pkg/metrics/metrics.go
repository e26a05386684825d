package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultFailure = "failure"
)

var (
	ProfileSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlinks_profile_saves_total",
		Help: "Profile save attempts by result.",
	}, []string{"result"})

	AvatarUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlinks_avatar_uploads_total",
		Help: "Avatar uploads by result.",
	}, []string{"result"})

	ProfileLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlinks_profile_loads_total",
		Help: "Profile snapshot loads, partial when a fetch fell back to empty.",
	}, []string{"result"})

	SessionStates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlinks_session_states_total",
		Help: "Identity state transitions seen by the HTTP layer.",
	}, []string{"status"})

	PreviewRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlinks_preview_renders_total",
		Help: "Preview and share page renders by mode.",
	}, []string{"mode"})

	ProfileViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devlinks_profile_views_recorded_total",
		Help: "Profile view events applied by the worker.",
	})
)
