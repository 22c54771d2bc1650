package scene

// Well-known node names.
const (
	NodeGround      = "ground"
	NodeRoad        = "road"
	NodeMoon        = "moon"
	NodeCamera      = "camera"
	NodeDecorations = "decorations"
	NodeDecoration  = "decoration"
	NodeStars       = "stars"
	NodeStar        = "star"
	NodePortal      = "portal"
	NodeVehicle     = "car"
)
