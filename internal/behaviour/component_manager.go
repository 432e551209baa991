package behaviour

import (
	"WallRig/internal/logger"

	"go.uber.org/zap"
)

// ComponentManager manages all GameObjects of a scene and their components.
// It is owned by the scene and driven once per frame from the render loop.
type ComponentManager struct {
	gameObjects []*GameObject
}

func NewComponentManager() *ComponentManager {
	return &ComponentManager{
		gameObjects: make([]*GameObject, 0),
	}
}

// RegisterGameObject adds a GameObject to the manager
func (cm *ComponentManager) RegisterGameObject(obj *GameObject) {
	cm.gameObjects = append(cm.gameObjects, obj)
	obj.internalStart()
	names := make([]string, 0, len(obj.Components))
	for _, comp := range obj.Components {
		names = append(names, GetComponentTypeName(comp))
	}
	logger.Log.Debug("GameObject registered",
		zap.String("name", obj.Name),
		zap.String("tag", obj.Tag),
		zap.Strings("components", names))
}

// FindGameObjectsWithTag finds all GameObjects with a specific tag, in registration order
func (cm *ComponentManager) FindGameObjectsWithTag(tag string) []*GameObject {
	var result []*GameObject
	for _, obj := range cm.gameObjects {
		if obj.Tag == tag {
			result = append(result, obj)
		}
	}
	return result
}

// UpdateAll calls Update on all active GameObjects in registration order
func (cm *ComponentManager) UpdateAll(t Time) {
	for _, obj := range cm.gameObjects {
		if obj.Active {
			obj.internalUpdate(t)
		}
	}
}

// Clear destroys and removes all GameObjects
func (cm *ComponentManager) Clear() {
	for _, obj := range cm.gameObjects {
		obj.Destroy()
	}
	cm.gameObjects = cm.gameObjects[:0]
}
