package stub

// classNames is the COCO class list the stub advertises, in model output
// order.
var classNames = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train",
	"truck", "boat", "traffic light", "fire hydrant", "stop sign",
	"parking meter", "bench", "bird", "cat", "dog", "horse", "sheep",
	"cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella",
	"handbag", "tie", "suitcase", "frisbee", "skis", "snowboard",
	"sports ball", "kite", "baseball bat", "baseball glove", "skateboard",
	"surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork",
	"knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv",
	"laptop", "mouse", "remote", "keyboard", "cell phone", "microwave",
	"oven", "toaster", "sink", "refrigerator", "book", "clock", "vase",
	"scissors", "teddy bear", "hair drier", "toothbrush",
}

// categories groups the classes the way the listing endpoint reports them.
var categories = map[string][]string{
	"people": {"person"},
	"vehicles": {
		"bicycle", "car", "motorcycle", "airplane", "bus", "train",
		"truck", "boat",
	},
	"outdoor": {
		"traffic light", "fire hydrant", "stop sign", "parking meter",
		"bench",
	},
	"animals": {
		"bird", "cat", "dog", "horse", "sheep", "cow", "elephant",
		"bear", "zebra", "giraffe",
	},
	"accessories": {"backpack", "umbrella", "handbag", "tie", "suitcase"},
	"sports": {
		"frisbee", "skis", "snowboard", "sports ball", "kite",
		"baseball bat", "baseball glove", "skateboard", "surfboard",
		"tennis racket",
	},
	"kitchen": {
		"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl",
	},
	"food": {
		"banana", "apple", "sandwich", "orange", "broccoli", "carrot",
		"hot dog", "pizza", "donut", "cake",
	},
	"furniture": {
		"chair", "couch", "potted plant", "bed", "dining table", "toilet",
	},
	"electronics": {
		"tv", "laptop", "mouse", "remote", "keyboard", "cell phone",
	},
	"appliances": {
		"microwave", "oven", "toaster", "sink", "refrigerator",
	},
	"indoor": {
		"book", "clock", "vase", "scissors", "teddy bear", "hair drier",
		"toothbrush",
	},
}

var classIndex = func() map[string]int {
	index := make(map[string]int, len(classNames))
	for i, name := range classNames {
		index[name] = i
	}
	return index
}()
