package scripts

import (
	"WallRig/internal/behaviour"
	"WallRig/internal/logger"
	"WallRig/internal/rig"

	"go.uber.org/zap"
)

// LimbNudgeScript wiggles the figure's arm joints a little every frame.
// It idles until the figure asset has arrived on its GameObject.
type LimbNudgeScript struct {
	behaviour.BaseComponent
	Nudger *rig.Nudger
}

func init() {
	behaviour.RegisterScript("LimbNudge", func() behaviour.Component {
		return &LimbNudgeScript{
			Nudger: rig.NewNudger([]string{"arm_joint_L_1", "arm_joint_R_1"}, 1, 0.005, rig.NudgeSine, 0),
		}
	})
}

func (n *LimbNudgeScript) Start() {
	logger.Log.Debug("LimbNudge started", zap.Strings("joints", n.Nudger.Joints))
}

func (n *LimbNudgeScript) Update(t behaviour.Time) {
	r, ok := n.GetGameObject().GetAsset().(*rig.Rig)
	if !ok {
		return
	}
	n.Nudger.Apply(r, t.Elapsed)
}
