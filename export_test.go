package phpguard

// AnalyzeFiles runs the concurrent per-file scan behind AnalyzeDirectory.
var AnalyzeFiles = (*Analyzer).analyzeFiles
